package domain

import "strings"

// Template filenames recognised by the candidate filter. Exact names
// take precedence over any configured glob pattern: a generic *.json
// match would sweep in unrelated JSON files, so broader patterns are
// opt-in only.
var templateFilenames = []string{
	"azuredeploy.json", "main.json", "template.json",
	"main.bicep", "azuredeploy.bicep", "template.bicep",
}

// TemplateFilenames returns the recognised template filenames.
func TemplateFilenames() []string {
	out := make([]string, len(templateFilenames))
	copy(out, templateFilenames)
	return out
}

// IsTemplateFilename reports whether the base filename is a recognised
// template name. Case-insensitive.
func IsTemplateFilename(name string) bool {
	name = strings.ToLower(name)
	for _, c := range templateFilenames {
		if name == c {
			return true
		}
	}
	return false
}

// FileEntry is a single file or directory reported by a traversal
// strategy. Entries are transient: they live for one scrape pass only.
type FileEntry struct {
	// Path is the repository-relative path, forward slashes.
	Path string

	// Ref is the blob SHA when the entry came from the Trees API.
	// Empty when the entry came from the Contents API, in which case
	// content is fetched by path instead.
	Ref string

	// Branch is the default branch the entry was listed from.
	Branch string

	// IsDir marks directory entries.
	IsDir bool

	// Size is the file size in bytes when known, zero otherwise.
	Size int64
}

// Resource is one resource declaration inside a template.
type Resource struct {
	// Type is the fully qualified resource type, e.g.
	// "Microsoft.Storage/storageAccounts".
	Type string

	// Name is the declared resource name, possibly an expression.
	Name string
}

// Parameter is one template parameter declaration. Order of appearance
// in the source document is preserved.
type Parameter struct {
	Name    string
	Type    string
	Default any
}

// Output is one template output declaration, in source order.
type Output struct {
	Name string
	Type string
}

// ParsedTemplate is the tolerantly parsed form of one template file.
// Any of the three sections may be absent in the source document;
// absence is represented as an empty slice, never nil semantics that
// differ from empty. A template with all sections empty is valid.
type ParsedTemplate struct {
	// Schema is the template's $schema URI when present.
	Schema string

	Resources  []Resource
	Parameters []Parameter
	Outputs    []Output
}

// IsEmpty reports whether no section carries any entries.
func (t *ParsedTemplate) IsEmpty() bool {
	return len(t.Resources) == 0 && len(t.Parameters) == 0 && len(t.Outputs) == 0
}

// TemplateMetadata is the optional metadata.json sidecar found next to
// quickstart templates. All fields are optional.
type TemplateMetadata struct {
	ItemDisplayName string `json:"itemDisplayName"`
	Title           string `json:"title"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Summary         string `json:"summary"`
}

// DisplayName returns the preferred human-readable name, or "" when
// the sidecar carries none.
func (m *TemplateMetadata) DisplayName() string {
	if m == nil {
		return ""
	}
	for _, s := range []string{m.ItemDisplayName, m.Title, m.Name} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Describe returns the preferred description, or "".
func (m *TemplateMetadata) Describe() string {
	if m == nil {
		return ""
	}
	if m.Description != "" {
		return m.Description
	}
	return m.Summary
}
