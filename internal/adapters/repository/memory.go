package repository

import (
	"context"
	"sync"

	"github.com/okian/candidates/internal/domain/candidate"
)

// MemoryStore keeps candidates in an id-ordered slice.
type MemoryStore struct {
	mu      sync.RWMutex
	records []candidate.Candidate
	nextID  int64
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	if err := checkIntegrity(c); err != nil {
		return candidate.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return candidate.Candidate{}, ErrClosed
	}

	c.ID = s.nextID
	s.nextID++
	s.records = append(s.records, c)
	return c, nil
}

// FindAll implements Store. The returned slice is a copy.
func (s *MemoryStore) FindAll(_ context.Context) ([]candidate.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]candidate.Candidate, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.records), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
