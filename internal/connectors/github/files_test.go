package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

func TestFetcher_FetchFile(t *testing.T) {
	spec := domain.SourceSpec{Owner: "Org", Repo: "Repo"}

	t.Run("by blob ref", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"resources": []}`))
		routes := map[string]string{
			"/repos/Org/Repo/git/blobs/b1": fmt.Sprintf(`{"sha": "b1", "encoding": "base64", "content": "%s"}`, encoded),
		}
		client, transport, _ := newTestClient(t, true, routeHandler(routes))

		content, err := NewFetcher(client).FetchFile(context.Background(), spec, domain.FileEntry{
			Path: "a/azuredeploy.json", Ref: "b1",
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"resources": []}`, string(content))
		assert.Equal(t, 1, transport.callCount())
	})

	t.Run("by path via contents API", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("param location string\n"))
		routes := map[string]string{
			"/repos/Org/Repo/contents/a/main.bicep": fmt.Sprintf(
				`{"type": "file", "path": "a/main.bicep", "encoding": "base64", "content": "%s"}`, encoded),
		}
		client, _, _ := newTestClient(t, false, routeHandler(routes))

		content, err := NewFetcher(client).FetchFile(context.Background(), spec, domain.FileEntry{
			Path: "a/main.bicep",
		})
		require.NoError(t, err)
		assert.Equal(t, "param location string\n", string(content))
	})

	t.Run("oversized file rejected without a call", func(t *testing.T) {
		client, transport, _ := newTestClient(t, true, nil)

		_, err := NewFetcher(client).FetchFile(context.Background(), spec, domain.FileEntry{
			Path: "big/azuredeploy.json", Size: MaxFileSize + 1,
		})
		require.Error(t, err)
		assert.Equal(t, 0, transport.callCount())
	})
}

func TestFetcher_FetchMetadata(t *testing.T) {
	spec := domain.SourceSpec{Owner: "Org", Repo: "Repo"}

	t.Run("sidecar present", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"itemDisplayName": "VM with VNet", "description": "Deploys a VM"}`))
		routes := map[string]string{
			"/repos/Org/Repo/contents/a/metadata.json": fmt.Sprintf(
				`{"type": "file", "path": "a/metadata.json", "encoding": "base64", "content": "%s"}`, encoded),
		}
		client, _, _ := newTestClient(t, true, routeHandler(routes))

		meta := NewFetcher(client).FetchMetadata(context.Background(), spec, "a/azuredeploy.json")
		require.NotNil(t, meta)
		assert.Equal(t, "VM with VNet", meta.DisplayName())
		assert.Equal(t, "Deploys a VM", meta.Describe())
	})

	t.Run("missing sidecar is not an error", func(t *testing.T) {
		client, _, _ := newTestClient(t, true, routeHandler(nil))

		meta := NewFetcher(client).FetchMetadata(context.Background(), spec, "a/azuredeploy.json")
		assert.Nil(t, meta)
	})

	t.Run("root-level template looks for root metadata", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"title": "Root"}`))
		routes := map[string]string{
			"/repos/Org/Repo/contents/metadata.json": fmt.Sprintf(
				`{"type": "file", "path": "metadata.json", "encoding": "base64", "content": "%s"}`, encoded),
		}
		client, _, _ := newTestClient(t, true, routeHandler(routes))

		meta := NewFetcher(client).FetchMetadata(context.Background(), spec, "azuredeploy.json")
		require.NotNil(t, meta)
		assert.Equal(t, "Root", meta.DisplayName())
	})
}
