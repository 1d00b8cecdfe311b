package normalisers

import (
	"github.com/custodia-labs/azarch-cli/internal/normalisers/arm"
	"github.com/custodia-labs/azarch-cli/internal/normalisers/bicep"
)

// RegisterDefaults registers the built-in parsers with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(arm.New())
	r.Register(bicep.New())
}

// Defaults returns a registry with all built-in parsers registered.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
