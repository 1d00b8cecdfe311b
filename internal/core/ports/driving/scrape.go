package driving

import (
	"context"
	"time"
)

// Scraper runs a scrape pass over configured sources.
type Scraper interface {
	// Scrape resolves every "Owner/Repo[:subdir]" source, traverses
	// it, normalises each discovered template and upserts the result.
	// It always returns a Summary, even under partial failure; zero
	// documents written is a valid completion. Cancelling the context
	// stops new work and returns what was gathered so far.
	Scrape(ctx context.Context, sources []string) (*Summary, error)
}

// Summary reports the outcome of one scrape pass.
type Summary struct {
	// RunID identifies this pass in logs.
	RunID string

	// DocumentsWritten counts successful upserts.
	DocumentsWritten int

	// FilesSkipped counts candidates dropped for unparsable content.
	FilesSkipped int

	// Errors lists failures attributed to the file or source that
	// caused them. Failures never abort the pass.
	Errors []string

	StartedAt  time.Time
	FinishedAt time.Time
}
