package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driving"
)

// mockScraper implements driving.Scraper for testing.
type mockScraper struct {
	sources []string
	summary *driving.Summary
	err     error
}

func (m *mockScraper) Scrape(_ context.Context, sources []string) (*driving.Summary, error) {
	m.sources = sources
	if m.summary == nil {
		m.summary = &driving.Summary{
			RunID:      "test-run",
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}
	}
	return m.summary, m.err
}

// setupScrapeTest injects a mock scraper and a temp settings store,
// returning the mock and a cleanup function.
func setupScrapeTest(t *testing.T) (*mockScraper, func()) {
	t.Helper()

	mock := &mockScraper{}
	oldRunner := scrapeRunner
	oldSettings := settingsStore
	oldStore := archStore

	scrapeRunner = mock
	archStore = memory.NewArchitectureStore()

	var err error
	settingsStore, err = file.NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	return mock, func() {
		scrapeRunner = oldRunner
		settingsStore = oldSettings
		archStore = oldStore
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestScrapeCmd_Use(t *testing.T) {
	assert.Equal(t, "scrape [sources...]", scrapeCmd.Use)
}

func TestScrapeCmd_DefaultSourceWhenNothingConfigured(t *testing.T) {
	mock, cleanup := setupScrapeTest(t)
	defer cleanup()

	out, err := execute(t, "scrape")

	require.NoError(t, err)
	assert.Equal(t, []string{"Azure/azure-quickstart-templates:quickstarts"}, mock.sources)
	assert.Contains(t, out, "Documents written")
}

func TestScrapeCmd_ArgumentsOverrideConfig(t *testing.T) {
	mock, cleanup := setupScrapeTest(t)
	defer cleanup()

	require.NoError(t, settingsStore.Update(file.Settings{Sources: []string{"cfg/repo"}}))

	_, err := execute(t, "scrape", "Contoso/templates:examples")

	require.NoError(t, err)
	assert.Equal(t, []string{"Contoso/templates:examples"}, mock.sources)
}

func TestScrapeCmd_ConfiguredSourcesUsed(t *testing.T) {
	mock, cleanup := setupScrapeTest(t)
	defer cleanup()

	require.NoError(t, settingsStore.Update(file.Settings{Sources: []string{"cfg/repo", "cfg/other"}}))

	_, err := execute(t, "scrape")

	require.NoError(t, err)
	assert.Equal(t, []string{"cfg/repo", "cfg/other"}, mock.sources)
}

func TestScrapeCmd_MalformedSourceFailsFast(t *testing.T) {
	mock, cleanup := setupScrapeTest(t)
	defer cleanup()

	_, err := execute(t, "scrape", "not-a-spec")

	require.Error(t, err)
	assert.Nil(t, mock.sources, "scrape never starts with a malformed source")
}

func TestScrapeCmd_SummaryIncludesErrors(t *testing.T) {
	mock, cleanup := setupScrapeTest(t)
	defer cleanup()

	mock.summary = &driving.Summary{
		RunID:            "run-1",
		DocumentsWritten: 3,
		FilesSkipped:     1,
		Errors:           []string{"o/r: a/main.json: fetch: boom"},
		StartedAt:        time.Now(),
		FinishedAt:       time.Now(),
	}

	out, err := execute(t, "scrape", "o/r")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents written: 3")
	assert.Contains(t, out, "Files skipped:     1")
	assert.Contains(t, out, "fetch: boom")
}

func TestResolveScrapeConfig_Precedence(t *testing.T) {
	_, cleanup := setupScrapeTest(t)
	defer cleanup()

	stored := file.Settings{
		Sources:      []string{"cfg/repo"},
		Token:        "cfg-token",
		ForceWalk:    true,
		FilePatterns: []string{"cfg-*.json"},
		Limit:        7,
	}

	t.Run("config file fills unset values", func(t *testing.T) {
		t.Setenv(envToken, "")
		cfg := resolveScrapeConfig(scrapeCmd, nil, stored)
		assert.Equal(t, []string{"cfg/repo"}, cfg.sources)
		assert.Equal(t, "cfg-token", cfg.token)
		assert.True(t, cfg.forceWalk)
		assert.Equal(t, []string{"cfg-*.json"}, cfg.patterns)
		assert.Equal(t, 7, cfg.limit)
	})

	t.Run("environment token beats config file", func(t *testing.T) {
		t.Setenv(envToken, "env-token")
		cfg := resolveScrapeConfig(scrapeCmd, nil, stored)
		assert.Equal(t, "env-token", cfg.token)
	})

	t.Run("environment walk override beats config file", func(t *testing.T) {
		t.Setenv(envForceWalk, "false")
		cfg := resolveScrapeConfig(scrapeCmd, nil, file.Settings{ForceWalk: true})
		assert.False(t, cfg.forceWalk)
	})

	t.Run("arguments beat everything", func(t *testing.T) {
		cfg := resolveScrapeConfig(scrapeCmd, []string{"arg/repo"}, stored)
		assert.Equal(t, []string{"arg/repo"}, cfg.sources)
	})
}
