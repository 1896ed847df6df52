package cmd

import (
	"fmt"
	"strings"

	"github.com/memeforge/memeforge/internal/config"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Find reference face images for a person",
	Long: `Search Wikimedia (with a DuckDuckGo fallback) for portrait images of
the named person. The resulting URLs can be downloaded and used as the
reference face for swaps.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Int("limit", 5, "Maximum number of images")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	query := strings.Join(args, " ")

	images, err := buildSearch(cfg).Search(cmd.Context(), query, mustGetInt(cmd, "limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(images) == 0 {
		fmt.Printf("No images found for %q\n", query)
		return nil
	}

	fmt.Printf("Images for %q:\n", query)
	for _, img := range images {
		fmt.Printf("  [%s] %s\n      %s\n", img.Source, img.Title, img.URL)
	}
	return nil
}
