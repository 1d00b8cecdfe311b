// Package cli provides the cobra-based command-line interface for
// azarch. Each command wires the connectors, services and stores it
// needs; package-level service variables exist so tests can inject
// fakes.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/azarch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injection points for tests. When nil, commands construct the real
// implementations on demand.
var (
	archStore     driven.ArchitectureStore
	scrapeRunner  driving.Scraper
	settingsStore *file.SettingsStore
)

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "azarch",
	Short: "Scrape Azure architecture templates from GitHub",
	Long: `azarch discovers ARM and Bicep templates in GitHub repositories,
extracts their resource topology and stores the result as searchable
architecture documents in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "db", "", "data directory (default ~/.azarch/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.azarch)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore returns the injected store or opens the SQLite store.
// The returned close function is a no-op for injected stores.
func openStore() (driven.ArchitectureStore, func(), error) {
	if archStore != nil {
		return archStore, func() {}, nil
	}
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return store, func() { store.Close() }, nil
}

// openSettings returns the injected settings store or opens the
// TOML-backed one.
func openSettings() (*file.SettingsStore, error) {
	if settingsStore != nil {
		return settingsStore, nil
	}
	return file.NewSettingsStore(flagConfigDir)
}
