package driven

import (
	"context"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

// ArchitectureStore persists normalised architecture documents.
// Backed by SQLite; an in-memory implementation exists for tests.
type ArchitectureStore interface {
	// Upsert inserts or replaces a document keyed by its ID.
	// A repeated scrape of the same source path replaces the prior
	// document in place, never creating a duplicate.
	Upsert(ctx context.Context, doc *domain.Architecture) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Architecture, error)

	// List returns all documents ordered by name.
	List(ctx context.Context) ([]domain.Architecture, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, id string) error
}
