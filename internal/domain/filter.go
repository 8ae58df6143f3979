package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFilter is returned by ParseFilter for unrecognised selectors.
var ErrUnknownFilter = errors.New("unknown filter")

// Filter selects which derived view of the token list is exposed.
type Filter string

const (
	FilterAll              Filter = "ALL"
	FilterGainers          Filter = "GAINERS"
	FilterRecentlyLaunched Filter = "RECENTLY_LAUNCHED"
)

// String returns the string representation of Filter.
func (f Filter) String() string {
	return string(f)
}

// IsValid checks if the filter is a valid value.
func (f Filter) IsValid() bool {
	return f == FilterAll || f == FilterGainers || f == FilterRecentlyLaunched
}

// ParseFilter converts user input into a Filter.
// Matching is case-insensitive; "new" is accepted for RECENTLY_LAUNCHED.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL", "":
		return FilterAll, nil
	case "GAINERS":
		return FilterGainers, nil
	case "RECENTLY_LAUNCHED", "NEW":
		return FilterRecentlyLaunched, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}
