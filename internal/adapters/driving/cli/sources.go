package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azarch-cli/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage configured scrape sources",
	RunE:  runSourcesList,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show configured sources",
	RunE:  runSourcesList,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <Owner/Repo[:subdir]>",
	Short: "Add a source to the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesAdd,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <Owner/Repo[:subdir]>",
	Short: "Remove a source from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	settings, err := openSettings()
	if err != nil {
		return err
	}

	sources := settings.Settings().Sources
	if len(sources) == 0 {
		cmd.Printf("No sources configured; 'azarch scrape' uses the default (%s).\n", domain.DefaultSource)
		return nil
	}
	for _, s := range sources {
		cmd.Println(s)
	}
	return nil
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	spec, err := domain.ParseSourceSpec(args[0])
	if err != nil {
		return err
	}

	settings, err := openSettings()
	if err != nil {
		return err
	}

	current := settings.Settings()
	for _, s := range current.Sources {
		if s == spec.String() {
			cmd.Printf("Source %s already configured.\n", spec)
			return nil
		}
	}
	current.Sources = append(current.Sources, spec.String())
	if err := settings.Update(current); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Added %s.\n", spec)
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	spec, err := domain.ParseSourceSpec(args[0])
	if err != nil {
		return err
	}

	settings, err := openSettings()
	if err != nil {
		return err
	}

	current := settings.Settings()
	kept := current.Sources[:0]
	removed := false
	for _, s := range current.Sources {
		if s == spec.String() {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return fmt.Errorf("source %s is not configured", spec)
	}

	current.Sources = kept
	if err := settings.Update(current); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Removed %s.\n", spec)
	return nil
}
