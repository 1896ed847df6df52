package cmd

import (
	"fmt"

	"github.com/memeforge/memeforge/internal/config"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show the current swap candidates",
	Long: `Fetch trending posts from the configured subreddits, apply the image
and safety filters, and print the ranked candidate list the batch
generator would work with.`,
	RunE: runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)

	trendsCmd.Flags().StringSlice("subreddits", nil, "Override configured subreddits (comma-separated)")
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	subreddits := cfg.Trends.Subreddits
	if override := mustGetStringSlice(cmd, "subreddits"); len(override) > 0 {
		subreddits = override
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	candidates := fetcher.Fetch(cmd.Context(), subreddits)

	if len(candidates) == 0 {
		fmt.Println("No candidates found")
		return nil
	}

	fmt.Printf("Found %d candidates:\n\n", len(candidates))
	for i, c := range candidates {
		fmt.Printf("%2d. [%6d] r/%s %s\n", i+1, c.Score, c.Subreddit, c.Title)
		fmt.Printf("      %s\n", c.URL)
	}
	return nil
}
