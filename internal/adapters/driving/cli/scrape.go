package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azarch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/azarch-cli/internal/connectors/github"
	"github.com/custodia-labs/azarch-cli/internal/core/domain"
	"github.com/custodia-labs/azarch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/azarch-cli/internal/core/services"
	"github.com/custodia-labs/azarch-cli/internal/normalisers"
)

// Environment variable names. The token never travels through flags in
// scripts; the walk override mirrors the scrape config file key.
const (
	envToken     = "GITHUB_TOKEN"
	envForceWalk = "FORCE_CONTENTS_WALK"
)

var (
	flagSources   []string
	flagToken     string
	flagForceWalk bool
	flagLimit     int
	flagPatterns  string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [sources...]",
	Short: "Scrape templates from the configured sources",
	Long: `Traverses each "Owner/Repo[:subdir]" source, parses every ARM and
Bicep template it finds and upserts one architecture document per
template. Sources come from the arguments, the --sources flag, the
config file, or the built-in default, in that order.

Without a GitHub token the anonymous rate limit (60 requests/hour)
applies and directories are walked one at a time. Set GITHUB_TOKEN or
--token for the 5000 requests/hour quota and bulk tree listing.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&flagSources, "sources", nil, `sources to scrape ("Owner/Repo[:subdir]")`)
	scrapeCmd.Flags().StringVar(&flagToken, "token", "", "GitHub token (defaults to $GITHUB_TOKEN)")
	scrapeCmd.Flags().BoolVar(&flagForceWalk, "force-walk", false, "force directory walking even with a token")
	scrapeCmd.Flags().IntVar(&flagLimit, "limit", 0, "stop after this many documents (0 = unlimited)")
	scrapeCmd.Flags().StringVar(&flagPatterns, "patterns", "", "extra glob patterns for template candidates, comma-separated")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	settings, err := openSettings()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := resolveScrapeConfig(cmd, args, settings.Settings())

	// Validate all sources up front so a typo fails fast instead of
	// after a long traversal.
	if _, err := domain.ParseSourceSpecs(cfg.sources); err != nil {
		return err
	}

	runner := scrapeRunner
	var closeStore func()
	if runner == nil {
		store, closer, err := openStore()
		if err != nil {
			return err
		}
		closeStore = closer

		client := github.NewClient(cmd.Context(), cfg.token)
		lister := github.SelectStrategy(client, cfg.forceWalk)
		fetcher := github.NewFetcher(client)

		opts := []services.Option{services.WithLimit(cfg.limit)}
		if len(cfg.patterns) > 0 {
			opts = append(opts, services.WithPatterns(cfg.patterns))
		}
		runner = services.NewScrapeService(lister, fetcher, store, normalisers.Defaults(), opts...)
	}
	if closeStore != nil {
		defer closeStore()
	}

	// Ctrl-C cancels the pass; work done so far is kept.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Scraping %d source(s)...\n", len(cfg.sources))
	summary, err := runner.Scrape(ctx, cfg.sources)
	if summary != nil {
		printSummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	return nil
}

// scrapeConfig is the resolved effective configuration for one run.
type scrapeConfig struct {
	sources   []string
	token     string
	forceWalk bool
	limit     int
	patterns  []string
}

// resolveScrapeConfig merges arguments, flags, environment and the
// config file. Precedence: args/flags, then environment, then config
// file, then built-in defaults.
func resolveScrapeConfig(cmd *cobra.Command, args []string, stored file.Settings) scrapeConfig {
	cfg := scrapeConfig{
		sources:   args,
		token:     flagToken,
		forceWalk: flagForceWalk,
		limit:     flagLimit,
		patterns:  services.ParsePatterns(flagPatterns),
	}

	if len(cfg.sources) == 0 {
		cfg.sources = flagSources
	}
	if len(cfg.sources) == 0 {
		cfg.sources = stored.Sources
	}
	if len(cfg.sources) == 0 {
		cfg.sources = []string{domain.DefaultSource}
	}

	if cfg.token == "" {
		cfg.token = os.Getenv(envToken)
	}
	if cfg.token == "" {
		cfg.token = stored.Token
	}

	if !cmd.Flags().Changed("force-walk") {
		if v, err := strconv.ParseBool(os.Getenv(envForceWalk)); err == nil {
			cfg.forceWalk = v
		} else {
			cfg.forceWalk = stored.ForceWalk
		}
	}

	if !cmd.Flags().Changed("limit") && stored.Limit > 0 {
		cfg.limit = stored.Limit
	}
	if len(cfg.patterns) == 0 {
		cfg.patterns = stored.FilePatterns
	}

	return cfg
}

// printSummary reports the outcome of one scrape pass.
func printSummary(cmd *cobra.Command, summary *driving.Summary) {
	cmd.Printf("\nRun %s finished in %s\n", summary.RunID, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	cmd.Printf("  Documents written: %d\n", summary.DocumentsWritten)
	cmd.Printf("  Files skipped:     %d\n", summary.FilesSkipped)
	if len(summary.Errors) > 0 {
		cmd.Printf("  Errors:            %d\n", len(summary.Errors))
		for _, e := range summary.Errors {
			cmd.Printf("    - %s\n", e)
		}
	}
}
