package normalisers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

// Registry maps file extensions to template parsers.
type Registry struct {
	parsers map[string]driven.TemplateParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]driven.TemplateParser),
	}
}

// Register adds a parser for every extension it declares.
// Later registrations win on extension collision.
func (r *Registry) Register(p driven.TemplateParser) {
	for _, ext := range p.Extensions() {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// ForPath returns the parser handling the path's extension.
// Returns an error wrapping domain.ErrUnsupportedType when none is
// registered.
func (r *Registry) ForPath(path string) (driven.TemplateParser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
	return p, nil
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
