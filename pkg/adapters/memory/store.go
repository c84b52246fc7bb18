// Package memory provides an in-process DesignStore.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/aretw0/automaton/pkg/schema"
)

// Store implements ports.DesignStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*schema.Code
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*schema.Code),
	}
}

// Save stores a copy of the code so later edits by the caller are not visible.
func (s *Store) Save(ctx context.Context, id string, code *schema.Code) error {
	copied := code.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load returns a copy of the stored code.
func (s *Store) Load(ctx context.Context, id string) (*schema.Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.data[id]
	if !ok {
		return nil, domain.ErrDesignNotFound
	}
	return code.Clone(), nil
}

// Delete removes the design.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored design ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
