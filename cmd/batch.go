package cmd

import (
	"fmt"

	"github.com/memeforge/memeforge/internal/batch"
	"github.com/memeforge/memeforge/internal/cache"
	"github.com/memeforge/memeforge/internal/config"
	"github.com/memeforge/memeforge/internal/swap"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate a batch of swapped memes",
	Long: `Fetch trending candidates and run them through the face swap until
the target number of successes is reached or the attempt budget runs
out. With --save the batch replaces the cached one the server serves.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("target", 0, "Successful swaps to collect (default from config)")
	batchCmd.Flags().Int("max-attempts", 0, "Attempt budget (default from config)")
	batchCmd.Flags().Int("concurrency", 0, "Parallel transforms (default from config)")
	batchCmd.Flags().Bool("save", false, "Store the batch in the meme cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if v := mustGetInt(cmd, "target"); v > 0 {
		cfg.Batch.Target = v
	}
	if v := mustGetInt(cmd, "max-attempts"); v > 0 {
		cfg.Batch.MaxAttempts = v
	}
	if v := mustGetInt(cmd, "concurrency"); v > 0 {
		cfg.Batch.Concurrency = v
	}

	transformer, err := buildTransformer(cfg, true)
	if err != nil {
		return err
	}

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}
	candidates := fetcher.Fetch(cmd.Context(), cfg.Trends.Subreddits)
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates to work with")
	}

	budget := min(cfg.Batch.MaxAttempts, len(candidates))
	bar := progressbar.NewOptions(budget,
		progressbar.OptionSetDescription("Swapping faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	generator := batch.NewGenerator(transformer.Transform, batch.Options{
		Target:      cfg.Batch.Target,
		MaxAttempts: cfg.Batch.MaxAttempts,
		Concurrency: cfg.Batch.Concurrency,
		Shuffle:     true,
		OnProgress: func(result swap.Result) {
			_ = bar.Add(1)
		},
	})

	report := generator.Run(cmd.Context(), candidates)
	_ = bar.Finish()

	fmt.Printf("Batch finished: %d/%d successes in %d attempts\n",
		len(report.Successes), cfg.Batch.Target, report.Attempts)
	for _, result := range report.Successes {
		fmt.Printf("  %s  (r/%s: %s)\n", result.Artifact, result.Candidate.Subreddit, result.Candidate.Title)
	}

	if len(report.Successes) == 0 {
		return fmt.Errorf("no successful swaps")
	}

	if mustGetBool(cmd, "save") {
		memeCache, err := buildCache(cfg, buildRegenerator(cfg, fetcher, transformer))
		if err != nil {
			return err
		}

		memes := make([]cache.Meme, 0, len(report.Successes))
		for _, result := range report.Successes {
			memes = append(memes, cache.Meme{
				Artifact:  result.Artifact,
				Title:     result.Candidate.Title,
				Subreddit: result.Candidate.Subreddit,
				Score:     result.Candidate.Score,
				SourceURL: result.Candidate.URL,
				CreatedAt: result.Candidate.FetchedAt,
			})
		}
		if err := memeCache.Put(memes); err != nil {
			return fmt.Errorf("could not save batch to cache: %w", err)
		}
		fmt.Println("Batch saved to the meme cache")
	}
	return nil
}
