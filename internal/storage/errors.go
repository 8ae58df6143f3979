package storage

import "errors"

// Storage errors for the rolling token list.
var (
	// ErrNotFound is returned when a requested token is not held.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a token whose ID is already held.
	ErrDuplicateKey = errors.New("duplicate key: token id already held")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
