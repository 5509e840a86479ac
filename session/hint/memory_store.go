package hint

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mux     sync.RWMutex
	byID    map[string]*Hint
	idleTTL time.Duration
}

// NewMemoryStore creates a MemoryStore, zero idleTTL keeps hints until revoked.
func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		byID:    map[string]*Hint{},
		idleTTL: idleTTL,
	}
}

func (s *MemoryStore) Put(_ context.Context, h *Hint) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	now := time.Now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.LastUsedAt.IsZero() {
		h.LastUsedAt = now
	}
	if h.ExpiresAt.IsZero() && s.idleTTL > 0 {
		h.ExpiresAt = now.Add(s.idleTTL)
	}
	dup := *h
	s.byID[h.ID] = &dup
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Hint, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	h, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if h.expired(time.Now()) {
		delete(s.byID, id)
		return nil, ErrNotFound
	}
	dup := *h
	return &dup, nil
}

func (s *MemoryStore) Touch(_ context.Context, id string, at time.Time) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	h, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	h.LastUsedAt = at
	if s.idleTTL > 0 {
		h.ExpiresAt = at.Add(s.idleTTL)
	}
	return nil
}

func (s *MemoryStore) Revoke(_ context.Context, id string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
