package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var flagListLong bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scraped architecture documents",
	Long: `Prints every stored architecture document ordered by name. With
--long, resource types, parameters and outputs are included.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&flagListLong, "long", "l", false, "include resource types, parameters and outputs")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	docs, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing architectures: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No architectures stored. Run 'azarch scrape' first.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%-12s  %-40s  %2d resources  %s/%s\n",
			doc.ID[:12], truncate(doc.Name, 40), doc.ResourceCount(), doc.SourceOwner, doc.SourceRepo)
		if !flagListLong {
			continue
		}
		if doc.Description != "" {
			cmd.Printf("    %s\n", doc.Description)
		}
		if len(doc.ResourceTypes) > 0 {
			cmd.Printf("    resources:  %s\n", strings.Join(doc.ResourceTypes, ", "))
		}
		if len(doc.ParameterNames) > 0 {
			cmd.Printf("    parameters: %s\n", strings.Join(doc.ParameterNames, ", "))
		}
		if len(doc.OutputNames) > 0 {
			cmd.Printf("    outputs:    %s\n", strings.Join(doc.OutputNames, ", "))
		}
		cmd.Printf("    %s\n", doc.SourceURL)
	}

	cmd.Printf("\n%d architecture(s)\n", len(docs))
	return nil
}

// truncate shortens s to at most n characters. Rune-based: display
// names from metadata sidecars are not always ASCII and must never be
// cut mid-rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
