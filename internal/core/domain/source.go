package domain

import (
	"fmt"
	"strings"
)

// DefaultSource is scraped when no sources are configured.
const DefaultSource = "Azure/azure-quickstart-templates:quickstarts"

// SourceSpec identifies a repository to scrape, optionally restricted
// to a subdirectory. It is immutable once parsed.
type SourceSpec struct {
	// Owner is the repository owner (user or organisation).
	Owner string

	// Repo is the repository name.
	Repo string

	// Subdir restricts the scrape to paths under this directory.
	// Empty means the entire repository.
	Subdir string
}

// ParseSourceSpec parses a source string of the form "Owner/Repo[:subdir]".
// A missing subdir is valid and means "scan the entire repository".
// Malformed strings return an error wrapping ErrInvalidSource.
func ParseSourceSpec(s string) (SourceSpec, error) {
	repoPart := s
	subdir := ""
	if idx := strings.Index(s, ":"); idx != -1 {
		repoPart = s[:idx]
		subdir = strings.Trim(s[idx+1:], "/")
	}

	owner, repo, ok := strings.Cut(repoPart, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return SourceSpec{}, fmt.Errorf("%w: %q (want Owner/Repo[:subdir])", ErrInvalidSource, s)
	}

	return SourceSpec{Owner: owner, Repo: repo, Subdir: subdir}, nil
}

// ParseSourceSpecs parses a list of source strings, failing on the first
// malformed entry. Blank entries are skipped.
func ParseSourceSpecs(sources []string) ([]SourceSpec, error) {
	specs := make([]SourceSpec, 0, len(sources))
	for _, s := range sources {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		spec, err := ParseSourceSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// String returns the canonical "Owner/Repo[:subdir]" form.
func (s SourceSpec) String() string {
	if s.Subdir != "" {
		return fmt.Sprintf("%s/%s:%s", s.Owner, s.Repo, s.Subdir)
	}
	return fmt.Sprintf("%s/%s", s.Owner, s.Repo)
}

// Slug returns the "Owner/Repo" form without the subdir.
func (s SourceSpec) Slug() string {
	return s.Owner + "/" + s.Repo
}

// Contains reports whether path falls inside the spec's subdir scope.
// With no subdir every path is in scope.
func (s SourceSpec) Contains(path string) bool {
	if s.Subdir == "" {
		return true
	}
	return path == s.Subdir || strings.HasPrefix(path, s.Subdir+"/")
}
