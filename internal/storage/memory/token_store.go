package memory

import (
	"sync"

	"token-tracker/internal/domain"
	"token-tracker/internal/storage"
)

// DefaultCapacity is the rolling list bound used when none is given.
const DefaultCapacity = 50

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu       sync.RWMutex
	capacity int
	tokens   []*domain.Token          // newest first
	index    map[string]*domain.Token // keyed by token id
}

// NewTokenStore creates a rolling store holding at most capacity tokens.
// A non-positive capacity selects DefaultCapacity.
func NewTokenStore(capacity int) *TokenStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TokenStore{
		capacity: capacity,
		tokens:   make([]*domain.Token, 0, capacity+1),
		index:    make(map[string]*domain.Token, capacity+1),
	}
}

// Prepend inserts t at the head and evicts from the tail beyond capacity.
func (s *TokenStore) Prepend(t *domain.Token) ([]*domain.Token, error) {
	if t == nil || t.ID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[t.ID]; exists {
		return nil, storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	tokenCopy := *t
	s.tokens = append(s.tokens, nil)
	copy(s.tokens[1:], s.tokens)
	s.tokens[0] = &tokenCopy
	s.index[t.ID] = &tokenCopy

	if len(s.tokens) <= s.capacity {
		return nil, nil
	}

	dropped := s.tokens[s.capacity:]
	evicted := make([]*domain.Token, len(dropped))
	for i, d := range dropped {
		delete(s.index, d.ID)
		evicted[i] = d
	}
	clear(dropped)
	s.tokens = s.tokens[:s.capacity]

	return evicted, nil
}

// List returns copies of all tokens, newest first.
func (s *TokenStore) List() []*domain.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, len(s.tokens))
	for i, t := range s.tokens {
		tokenCopy := *t
		result[i] = &tokenCopy
	}
	return result
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not held.
func (s *TokenStore) GetByID(id string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.index[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	tokenCopy := *t
	return &tokenCopy, nil
}

// ClearHighlights zeroes NewUntil on every held token.
func (s *TokenStore) ClearHighlights(nowMs int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for _, t := range s.tokens {
		if t.HighlightedAt(nowMs) {
			cleared++
		}
		t.NewUntil = 0
		t.IsNew = false
	}
	return cleared
}

// Len returns the number of held tokens.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// Capacity returns the rolling list bound.
func (s *TokenStore) Capacity() int {
	return s.capacity
}

// Verify interface compliance at compile time.
var _ storage.TokenStore = (*TokenStore)(nil)
