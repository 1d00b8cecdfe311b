package cli

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

func setupListTest(t *testing.T) (*memory.ArchitectureStore, func()) {
	t.Helper()

	store := memory.NewArchitectureStore()
	oldStore := archStore
	archStore = store
	return store, func() { archStore = oldStore }
}

func TestListCmd_Use(t *testing.T) {
	assert.Equal(t, "list", listCmd.Use)
}

func TestListCmd_EmptyStore(t *testing.T) {
	_, cleanup := setupListTest(t)
	defer cleanup()

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No architectures stored")
}

func TestListCmd_PrintsDocumentsOrderedByName(t *testing.T) {
	store, cleanup := setupListTest(t)
	defer cleanup()

	for _, name := range []string{"web-farm", "aks-cluster"} {
		doc := &domain.Architecture{
			ID:            domain.ArchitectureID("o", "r", name+"/azuredeploy.json"),
			Name:          name,
			SourceOwner:   "o",
			SourceRepo:    "r",
			SourcePath:    name + "/azuredeploy.json",
			ResourceTypes: []string{"Microsoft.Compute/virtualMachines"},
			ScrapedAt:     time.Now().UTC(),
		}
		require.NoError(t, store.Upsert(context.Background(), doc))
	}

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "aks-cluster")
	assert.Contains(t, out, "web-farm")
	assert.Less(t, strings.Index(out, "aks-cluster"), strings.Index(out, "web-farm"))
	assert.Contains(t, out, "2 architecture(s)")
}

func TestListCmd_LongOutput(t *testing.T) {
	store, cleanup := setupListTest(t)
	defer cleanup()

	doc := &domain.Architecture{
		ID:             domain.ArchitectureID("o", "r", "a/azuredeploy.json"),
		Name:           "vm-simple",
		Description:    "A simple VM",
		SourceOwner:    "o",
		SourceRepo:     "r",
		SourcePath:     "a/azuredeploy.json",
		SourceURL:      "https://github.com/o/r/blob/main/a/azuredeploy.json",
		ResourceTypes:  []string{"Microsoft.Compute/virtualMachines"},
		ParameterNames: []string{"adminUsername"},
		OutputNames:    []string{"hostname"},
		ScrapedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.Upsert(context.Background(), doc))

	out, err := execute(t, "list", "--long")

	require.NoError(t, err)
	assert.Contains(t, out, "A simple VM")
	assert.Contains(t, out, "Microsoft.Compute/virtualMachines")
	assert.Contains(t, out, "adminUsername")
	assert.Contains(t, out, "hostname")
	assert.Contains(t, out, "https://github.com/o/r/blob/main/a/azuredeploy.json")
}

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "vm-simple", truncate("vm-simple", 40))
	})

	t.Run("long strings are shortened", func(t *testing.T) {
		got := truncate(strings.Repeat("a", 50), 40)
		assert.Len(t, got, 40)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("multi-byte names are never cut mid-rune", func(t *testing.T) {
		name := strings.Repeat("仮想マシン", 10)
		got := truncate(name, 40)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 40, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}
