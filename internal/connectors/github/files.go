package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
)

const (
	// MaxFileSize is the largest file fetched. The Contents and Blobs
	// APIs inline content up to 1MB; templates are far smaller.
	MaxFileSize = 1024 * 1024

	// MetadataFilename is the sidecar carrying template metadata.
	MetadataFilename = "metadata.json"
)

// Ensure Fetcher implements the interface.
var _ driven.ContentFetcher = (*Fetcher)(nil)

// Fetcher retrieves raw file content through the shared guarded
// client. Entries with a blob ref (bulk strategy) are fetched by SHA,
// entries without one (walker strategy) by path.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a content fetcher over a shared client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchFile returns the decoded content of one entry.
func (f *Fetcher) FetchFile(ctx context.Context, spec domain.SourceSpec, entry domain.FileEntry) ([]byte, error) {
	if entry.Size > MaxFileSize {
		return nil, fmt.Errorf("%s: file too large (%d bytes)", entry.Path, entry.Size)
	}

	if entry.Ref != "" {
		blob, err := f.client.GetBlob(ctx, spec.Owner, spec.Repo, entry.Ref)
		if err != nil {
			return nil, err
		}
		if blob.GetEncoding() == "base64" {
			content := strings.ReplaceAll(blob.GetContent(), "\n", "")
			return base64.StdEncoding.DecodeString(content)
		}
		return []byte(blob.GetContent()), nil
	}

	return f.client.GetFileContent(ctx, spec.Owner, spec.Repo, entry.Path)
}

// FetchMetadata fetches and parses the metadata.json sidecar next to a
// template, best-effort. A missing or malformed sidecar returns nil
// without error: metadata only enriches the document.
func (f *Fetcher) FetchMetadata(ctx context.Context, spec domain.SourceSpec, templatePath string) *domain.TemplateMetadata {
	dir := path.Dir(templatePath)
	metaPath := MetadataFilename
	if dir != "." && dir != "/" {
		metaPath = dir + "/" + MetadataFilename
	}

	content, err := f.client.GetFileContent(ctx, spec.Owner, spec.Repo, metaPath)
	if err != nil {
		return nil
	}

	var meta domain.TemplateMetadata
	if err := json.Unmarshal(content, &meta); err != nil {
		return nil
	}
	return &meta
}
