package bicep

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TemplateParser = (*Normaliser)(nil)

// Normaliser extracts declarations from Bicep sources. There is no
// compile step: a loose line-oriented scan finds resource, param and
// output declarations, which is enough to normalise the architecture
// without a Bicep toolchain.
type Normaliser struct{}

// New creates a new Bicep parser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this parser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".bicep"}
}

var (
	// resource storage 'Microsoft.Storage/storageAccounts@2023-01-01' = {...}
	resourceRe = regexp.MustCompile(`(?m)^\s*resource\s+([A-Za-z_][A-Za-z0-9_]*)\s+'([^']+)'`)

	// param location string = resourceGroup().location
	paramRe = regexp.MustCompile(`(?m)^\s*param\s+([A-Za-z_][A-Za-z0-9_]*)\s+([A-Za-z][A-Za-z0-9.]*)(?:\s*=\s*(.+?))?\s*$`)

	// output hostname string = app.properties.defaultHostName
	outputRe = regexp.MustCompile(`(?m)^\s*output\s+([A-Za-z_][A-Za-z0-9_]*)\s+([A-Za-z][A-Za-z0-9.]*)`)
)

// Parse scans Bicep source for declarations. A file with no
// declarations at all is still a valid, empty template: the candidate
// filter already restricted input to declared template filenames.
func (n *Normaliser) Parse(content []byte) (*domain.ParsedTemplate, error) {
	src := string(content)
	tmpl := &domain.ParsedTemplate{}

	for _, m := range resourceRe.FindAllStringSubmatch(src, -1) {
		tmpl.Resources = append(tmpl.Resources, domain.Resource{
			Type: stripAPIVersion(m[2]),
			Name: m[1],
		})
	}

	for _, m := range paramRe.FindAllStringSubmatch(src, -1) {
		tmpl.Parameters = append(tmpl.Parameters, domain.Parameter{
			Name:    m[1],
			Type:    m[2],
			Default: literalValue(m[3]),
		})
	}

	for _, m := range outputRe.FindAllStringSubmatch(src, -1) {
		tmpl.Outputs = append(tmpl.Outputs, domain.Output{Name: m[1], Type: m[2]})
	}

	return tmpl, nil
}

// stripAPIVersion drops the "@2023-01-01" suffix from a resource type
// reference, leaving the bare resource type.
func stripAPIVersion(ref string) string {
	if idx := strings.Index(ref, "@"); idx != -1 {
		return ref[:idx]
	}
	return ref
}

// literalValue converts a simple Bicep default expression to a Go
// value. Strings, bools and numbers are recognised; anything else
// (function calls, object literals) is kept as the raw expression.
func literalValue(expr string) any {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	if strings.HasPrefix(expr, "'") && strings.HasSuffix(expr, "'") && len(expr) >= 2 {
		return strings.Trim(expr, "'")
	}
	if b, err := strconv.ParseBool(expr); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(expr, 10, 64); err == nil {
		return i
	}
	return expr
}
