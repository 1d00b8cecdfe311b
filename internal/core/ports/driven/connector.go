package driven

import (
	"context"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

// TreeLister enumerates the files of a repository. The two GitHub
// traversal strategies (bulk tree listing and directory walking) both
// implement this contract, so the scrape service never knows which one
// was selected.
//
// Implementations must return entries restricted to the spec's subdir
// and must be deterministic for an unchanged repository, so scrapes
// are reproducible in tests.
type TreeLister interface {
	// ListFiles returns every file entry in scope for the spec.
	ListFiles(ctx context.Context, spec domain.SourceSpec) ([]domain.FileEntry, error)
}

// ContentFetcher retrieves raw file content for an entry produced by a
// TreeLister. Entries carrying a blob ref are fetched by ref; entries
// without one are fetched by path.
type ContentFetcher interface {
	// FetchFile returns the decoded file content.
	FetchFile(ctx context.Context, spec domain.SourceSpec, entry domain.FileEntry) ([]byte, error)
}

// MetadataFetcher is an optional capability of a ContentFetcher:
// retrieving the metadata sidecar next to a template. Implementations
// are best-effort and return nil when no usable sidecar exists.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, spec domain.SourceSpec, templatePath string) *domain.TemplateMetadata
}

// TemplateParser parses one template format into the section model.
// Parsers are best-effort: a recoverable oddity in the input produces
// a partial result, only an unusable document returns an error.
type TemplateParser interface {
	// Extensions returns the file extensions this parser handles,
	// lowercase with leading dot.
	Extensions() []string

	// Parse converts raw content into a ParsedTemplate. Missing
	// sections default to empty. Returns an error wrapping
	// domain.ErrUnparsableTemplate when nothing can be extracted.
	Parse(content []byte) (*domain.ParsedTemplate, error)
}
