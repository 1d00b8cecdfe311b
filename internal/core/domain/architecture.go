package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Architecture is the normalised record derived from one template.
// It is the only entity that crosses the storage boundary and is
// created or replaced whole on each successful scrape of its path.
type Architecture struct {
	// ID is a stable hash of (owner, repo, path). Re-scraping the same
	// file always yields the same ID, which makes store upserts
	// idempotent.
	ID string

	// Name is the human-readable name, taken from the metadata sidecar
	// when present, otherwise derived from the path.
	Name string

	// Description comes from the metadata sidecar, may be empty.
	Description string

	// SourceOwner, SourceRepo and SourcePath record provenance.
	SourceOwner string
	SourceRepo  string
	SourcePath  string

	// SourceURL is the HTML URL of the template file.
	SourceURL string

	// ResourceTypes is the deduplicated, sorted set of resource types
	// the template declares.
	ResourceTypes []string

	// ParameterNames preserves the template's parameter declaration order.
	ParameterNames []string

	// OutputNames preserves the template's output declaration order.
	OutputNames []string

	// ScrapedAt is when this record was produced.
	ScrapedAt time.Time
}

// ResourceCount returns the number of distinct resource types.
func (a *Architecture) ResourceCount() int {
	return len(a.ResourceTypes)
}

// ArchitectureID derives the stable document identity from provenance.
// It is a pure function: identical inputs always hash identically.
func ArchitectureID(owner, repo, path string) string {
	h := sha256.Sum256([]byte(owner + "/" + repo + "/" + path))
	return hex.EncodeToString(h[:])
}
