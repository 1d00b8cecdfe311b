package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/azarch-cli/internal/logger"
	"github.com/custodia-labs/azarch-cli/internal/normalisers"
)

// Ensure ScrapeService implements the interface.
var _ driving.Scraper = (*ScrapeService)(nil)

// ScrapeService runs the scrape pipeline: traversal, candidate
// filtering, fetch and parse, normalisation, upsert. One source at a
// time, sequentially: the upstream rate limit is a shared resource and
// must not be raced by parallel callers, so every call blocks the pass
// that issued it.
type ScrapeService struct {
	lister  driven.TreeLister
	fetcher driven.ContentFetcher
	store   driven.ArchitectureStore
	parsers *normalisers.Registry

	patterns []string
	limit    int
	now      func() time.Time
}

// Option configures a ScrapeService.
type Option func(*ScrapeService)

// WithPatterns adds opt-in glob patterns to the candidate filter.
func WithPatterns(patterns []string) Option {
	return func(s *ScrapeService) { s.patterns = patterns }
}

// WithLimit caps the number of documents written in one pass.
// Zero means unlimited.
func WithLimit(limit int) Option {
	return func(s *ScrapeService) { s.limit = limit }
}

// WithClock overrides the time source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(s *ScrapeService) { s.now = now }
}

// NewScrapeService creates the scrape orchestrator.
func NewScrapeService(
	lister driven.TreeLister,
	fetcher driven.ContentFetcher,
	store driven.ArchitectureStore,
	parsers *normalisers.Registry,
	opts ...Option,
) *ScrapeService {
	s := &ScrapeService{
		lister:  lister,
		fetcher: fetcher,
		store:   store,
		parsers: parsers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape traverses every source and upserts one document per parsed
// template. Failures are captured, attributed to the file or source
// that caused them, and aggregated; nothing in the pipeline is
// permitted to crash the pass. A cancelled context stops new calls and
// returns what was gathered so far together with the context error.
//
// The single fatal case is a rejected credential: when a token was
// declared present the bulk strategy was selected on its strength, so
// the whole pass aborts.
func (s *ScrapeService) Scrape(ctx context.Context, sources []string) (*driving.Summary, error) {
	summary := &driving.Summary{
		RunID:     uuid.New().String(),
		StartedAt: s.now(),
	}
	logger.Section("Scrape " + summary.RunID)

	for _, source := range sources {
		if ctx.Err() != nil {
			summary.FinishedAt = s.now()
			return summary, ctx.Err()
		}

		spec, err := domain.ParseSourceSpec(source)
		if err != nil {
			// Bad spec is fatal to this one source only.
			summary.Errors = append(summary.Errors, err.Error())
			logger.Warn("skipping source %q: %v", source, err)
			continue
		}

		if err := s.scrapeSource(ctx, spec, summary); err != nil {
			if errors.Is(err, domain.ErrAuthInvalid) {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", spec, err))
				summary.FinishedAt = s.now()
				return summary, err
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				summary.FinishedAt = s.now()
				return summary, err
			}
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", spec, err))
		}

		if s.limitReached(summary) {
			break
		}
	}

	summary.FinishedAt = s.now()
	return summary, nil
}

// scrapeSource processes one source. Traversal failures surface to the
// caller; per-candidate failures are recorded on the summary and the
// loop continues, so one bad file never aborts its siblings.
func (s *ScrapeService) scrapeSource(ctx context.Context, spec domain.SourceSpec, summary *driving.Summary) error {
	logger.Info("listing %s", spec)

	entries, listErr := s.lister.ListFiles(ctx, spec)
	if listErr != nil && len(entries) == 0 {
		return listErr
	}
	if listErr != nil {
		// Partial traversal: keep what was gathered, record the rest.
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: traversal incomplete: %v", spec, listErr))
	}

	candidates := FilterCandidates(entries, s.patterns)
	logger.Info("%s: %d files listed, %d template candidates", spec, len(entries), len(candidates))

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.limitReached(summary) {
			return nil
		}
		s.processCandidate(ctx, spec, cand, summary)
	}
	return nil
}

// processCandidate fetches, parses, normalises and stores one
// candidate, isolating its failures from the rest of the batch.
func (s *ScrapeService) processCandidate(ctx context.Context, spec domain.SourceSpec, cand domain.FileEntry, summary *driving.Summary) {
	content, err := s.fetcher.FetchFile(ctx, spec, cand)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s/%s: fetch: %v", spec.Slug(), cand.Path, err))
		logger.Warn("fetch %s/%s failed: %v", spec.Slug(), cand.Path, err)
		return
	}

	parser, err := s.parsers.ForPath(cand.Path)
	if err != nil {
		summary.FilesSkipped++
		logger.Warn("skipping %s/%s: %v", spec.Slug(), cand.Path, err)
		return
	}

	tmpl, err := parser.Parse(content)
	if err != nil {
		summary.FilesSkipped++
		logger.Warn("skipping %s/%s: %v", spec.Slug(), cand.Path, err)
		return
	}

	var meta *domain.TemplateMetadata
	if mf, ok := s.fetcher.(driven.MetadataFetcher); ok {
		meta = mf.FetchMetadata(ctx, spec, cand.Path)
	}

	doc := Normalize(spec, cand, tmpl, meta, s.now())
	if err := s.store.Upsert(ctx, doc); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s/%s: store: %v", spec.Slug(), cand.Path, err))
		logger.Error("upsert %s failed: %v", doc.ID, err)
		return
	}

	summary.DocumentsWritten++
	logger.Debug("wrote %s (%s, %d resource types)", doc.Name, doc.ID[:12], doc.ResourceCount())
}

func (s *ScrapeService) limitReached(summary *driving.Summary) bool {
	return s.limit > 0 && summary.DocumentsWritten >= s.limit
}
