package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/memeforge/memeforge/internal/cache"
	"github.com/memeforge/memeforge/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the meme cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache freshness",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached batch",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// openCache builds a cache handle without the regeneration pipeline;
// status and clear never trigger swaps.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	noRegen := func(ctx context.Context) ([]cache.Meme, error) {
		return nil, fmt.Errorf("regeneration is not available from this command")
	}
	return buildCache(cfg, noRegen)
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Cache.File == "" {
		fmt.Println("Cache is in-memory only (set CACHE_FILE to persist it); nothing to inspect here")
		return nil
	}

	memeCache, err := openCache(cfg)
	if err != nil {
		return err
	}

	status := memeCache.Status()
	if !status.Present {
		fmt.Println("Cache is empty")
		return nil
	}

	state := "expired"
	if status.Valid {
		state = "valid"
	}
	fmt.Printf("Cache: %s\n", state)
	fmt.Printf("  Memes:   %d\n", status.Count)
	fmt.Printf("  Created: %s\n", status.CreatedAt.Format(time.RFC3339))
	fmt.Printf("  Age:     %s\n", status.Age.Round(time.Second))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Cache.File == "" {
		fmt.Println("Cache is in-memory only; nothing to clear")
		return nil
	}

	memeCache, err := openCache(cfg)
	if err != nil {
		return err
	}
	if err := memeCache.Invalidate(); err != nil {
		return err
	}

	fmt.Println("Cache cleared")
	return nil
}
