package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore_StartsEmpty(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Settings{}, store.Settings())
}

func TestSettingsStore_UpdateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	want := Settings{
		Sources:      []string{"Azure/azure-quickstart-templates:quickstarts", "o/r"},
		ForceWalk:    true,
		FilePatterns: []string{"deploy-*.json"},
		Limit:        50,
	}
	require.NoError(t, store.Update(want))

	// A fresh store reads the persisted file.
	reopened, err := NewSettingsStore(dir)
	require.NoError(t, err)
	assert.Equal(t, want, reopened.Settings())
}

func TestSettingsStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Update(Settings{Token: "secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSettingsStore_MalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("sources = not-toml"), 0600))

	_, err := NewSettingsStore(dir)
	assert.Error(t, err)
}

func TestSettingsStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewSettingsStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
