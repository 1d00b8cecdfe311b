package services

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

// FilterCandidates narrows a file listing to template candidates.
// Non-directory entries are kept when their base name is a recognised
// template filename, or when it matches one of the caller's opt-in
// glob patterns. Input order is preserved. Empty input yields empty
// output.
func FilterCandidates(entries []domain.FileEntry, extraPatterns []string) []domain.FileEntry {
	out := make([]domain.FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		base := path.Base(e.Path)
		if domain.IsTemplateFilename(base) || matchesPatterns(e.Path, base, extraPatterns) {
			out = append(out, e)
		}
	}
	return out
}

// matchesPatterns checks the opt-in glob patterns against the base
// name and the full path.
func matchesPatterns(fullPath, base string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, fullPath); err == nil && matched {
			return true
		}
	}
	return false
}

// ParsePatterns parses a comma-separated glob patterns string.
func ParsePatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}
