package storage

import "token-tracker/internal/domain"

// TokenStore holds the bounded, newest-first rolling list of tokens.
// Implementations copy on write and on read; callers never share memory
// with the store.
type TokenStore interface {
	// Prepend inserts t at the head and drops tokens beyond capacity from the
	// tail. Returns the evicted tokens, oldest last.
	// Returns ErrInvalidInput for nil or empty ID, ErrDuplicateKey if the ID is held.
	Prepend(t *domain.Token) ([]*domain.Token, error)

	// List returns all tokens, newest first.
	List() []*domain.Token

	// GetByID retrieves a held token. Returns ErrNotFound if not held.
	GetByID(id string) (*domain.Token, error)

	// ClearHighlights zeroes NewUntil on every held token and returns how
	// many were still highlighted at nowMs.
	ClearHighlights(nowMs int64) int

	// Len returns the number of held tokens.
	Len() int

	// Capacity returns the maximum number of held tokens.
	Capacity() int
}
