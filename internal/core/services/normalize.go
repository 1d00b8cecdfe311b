package services

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

// Normalize maps one parsed template plus its provenance into the
// canonical architecture document. Pure function: no network, no
// storage, identical inputs always produce identical output (the
// ScrapedAt timestamp is an explicit argument for that reason).
func Normalize(
	spec domain.SourceSpec,
	entry domain.FileEntry,
	tmpl *domain.ParsedTemplate,
	meta *domain.TemplateMetadata,
	scrapedAt time.Time,
) *domain.Architecture {
	doc := &domain.Architecture{
		ID:          domain.ArchitectureID(spec.Owner, spec.Repo, entry.Path),
		Name:        deriveName(spec, entry.Path, meta),
		Description: meta.Describe(),
		SourceOwner: spec.Owner,
		SourceRepo:  spec.Repo,
		SourcePath:  entry.Path,
		SourceURL:   sourceURL(spec, entry),
		ScrapedAt:   scrapedAt,
	}

	doc.ResourceTypes = dedupeResourceTypes(tmpl.Resources)

	doc.ParameterNames = make([]string, 0, len(tmpl.Parameters))
	for _, p := range tmpl.Parameters {
		doc.ParameterNames = append(doc.ParameterNames, p.Name)
	}

	doc.OutputNames = make([]string, 0, len(tmpl.Outputs))
	for _, o := range tmpl.Outputs {
		doc.OutputNames = append(doc.OutputNames, o.Name)
	}

	return doc
}

// deriveName picks the document name: sidecar metadata wins, then the
// parent directory for generic template filenames (an azuredeploy.json
// inside a named quickstart folder takes the folder name), then the
// filename stem.
func deriveName(spec domain.SourceSpec, filePath string, meta *domain.TemplateMetadata) string {
	if name := meta.DisplayName(); name != "" {
		return name
	}

	base := path.Base(filePath)
	if domain.IsTemplateFilename(base) {
		dir := path.Base(path.Dir(filePath))
		if dir == "." || dir == "/" {
			return spec.Repo
		}
		return dir
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// sourceURL builds the HTML URL of the template file.
func sourceURL(spec domain.SourceSpec, entry domain.FileEntry) string {
	branch := entry.Branch
	if branch == "" {
		branch = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", spec.Owner, spec.Repo, branch, entry.Path)
}

// dedupeResourceTypes collapses resource declarations into the sorted
// set of distinct types. A template repeating one type three times
// yields a set of size one.
func dedupeResourceTypes(resources []domain.Resource) []string {
	seen := make(map[string]struct{}, len(resources))
	types := make([]string, 0, len(resources))
	for _, r := range resources {
		if r.Type == "" {
			continue
		}
		if _, ok := seen[r.Type]; ok {
			continue
		}
		seen[r.Type] = struct{}{}
		types = append(types, r.Type)
	}
	sort.Strings(types)
	return types
}
