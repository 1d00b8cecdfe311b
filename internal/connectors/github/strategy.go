package github

import (
	"context"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/azarch-cli/internal/logger"
)

// UseWalker is the strategy selection rule, a pure function of the
// process configuration. Evaluated once, not per source.
func UseWalker(hasToken, forceWalk bool) bool {
	return !hasToken || forceWalk
}

// SelectStrategy picks the traversal strategy for the client's
// configuration. Both strategies route every call through the same
// guarded client.
func SelectStrategy(client *Client, forceWalk bool) driven.TreeLister {
	if UseWalker(client.Authenticated(), forceWalk) {
		return &WalkerLister{client: client}
	}
	return &BulkLister{client: client}
}

// BulkLister lists a repository with one recursive Trees API call.
type BulkLister struct {
	client *Client
}

// NewBulkLister creates the bulk strategy over a shared client.
func NewBulkLister(client *Client) *BulkLister {
	return &BulkLister{client: client}
}

// ListFiles returns every blob in the repository tree, restricted to
// the spec's subdir. Entries carry the blob SHA so content can be
// fetched without a second path lookup.
func (l *BulkLister) ListFiles(ctx context.Context, spec domain.SourceSpec) ([]domain.FileEntry, error) {
	branch, err := l.client.DefaultBranch(ctx, spec.Owner, spec.Repo)
	if err != nil {
		return nil, err
	}

	tree, err := l.client.GetTree(ctx, spec.Owner, spec.Repo, branch)
	if err != nil {
		return nil, err
	}
	if tree.GetTruncated() {
		logger.Warn("tree listing for %s truncated by the API, some files may be missed", spec.Slug())
	}

	entries := make([]domain.FileEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.GetType() != "blob" {
			continue
		}
		p := e.GetPath()
		if !spec.Contains(p) {
			continue
		}
		entries = append(entries, domain.FileEntry{
			Path:   p,
			Ref:    e.GetSHA(),
			Branch: branch,
			Size:   int64(e.GetSize()),
		})
	}
	return entries, nil
}

// WalkerLister lists a repository directory by directory via the
// Contents API. It needs no credential. Directories are visited in
// FIFO order exactly as the API lists them, so a given traversal is
// deterministic and reproducible in tests.
type WalkerLister struct {
	client *Client
}

// NewWalkerLister creates the walker strategy over a shared client.
func NewWalkerLister(client *Client) *WalkerLister {
	return &WalkerLister{client: client}
}

// ListFiles walks from the spec's subdir (or the repository root).
// On a mid-walk failure the entries gathered so far are returned with
// the error, so the caller can continue the pass with partial data.
func (l *WalkerLister) ListFiles(ctx context.Context, spec domain.SourceSpec) ([]domain.FileEntry, error) {
	branch, err := l.client.DefaultBranch(ctx, spec.Owner, spec.Repo)
	if err != nil {
		return nil, err
	}

	var entries []domain.FileEntry
	queue := []string{spec.Subdir}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		dir := queue[0]
		queue = queue[1:]

		listing, err := l.client.ListDirectory(ctx, spec.Owner, spec.Repo, dir)
		if err != nil {
			return entries, err
		}

		for _, item := range listing {
			switch item.GetType() {
			case "dir":
				queue = append(queue, item.GetPath())
			case "file":
				entries = append(entries, domain.FileEntry{
					Path:   item.GetPath(),
					Branch: branch,
					Size:   int64(item.GetSize()),
				})
			}
		}
	}
	return entries, nil
}
