// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and wherever persistence is not required.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

// Ensure ArchitectureStore implements the interface.
var _ driven.ArchitectureStore = (*ArchitectureStore)(nil)

// ArchitectureStore is an in-memory implementation of
// driven.ArchitectureStore.
type ArchitectureStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Architecture
}

// NewArchitectureStore creates a new in-memory architecture store.
func NewArchitectureStore() *ArchitectureStore {
	return &ArchitectureStore{
		docs: make(map[string]domain.Architecture),
	}
}

// Upsert inserts or replaces a document keyed by its ID.
func (s *ArchitectureStore) Upsert(_ context.Context, doc *domain.Architecture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

// Get retrieves a document by ID.
func (s *ArchitectureStore) Get(_ context.Context, id string) (*domain.Architecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// List returns all documents ordered by name, ID breaking ties.
func (s *ArchitectureStore) List(_ context.Context) ([]domain.Architecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Architecture, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Count returns the number of stored documents.
func (s *ArchitectureStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Delete removes a document by ID.
func (s *ArchitectureStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}
