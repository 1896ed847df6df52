package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Reddit.BaseURL != "https://www.reddit.com" {
		t.Errorf("unexpected default reddit base URL: %s", cfg.Reddit.BaseURL)
	}
	if cfg.Trends.PerGroupLimit != 15 || cfg.Trends.MaxCandidates != 20 {
		t.Errorf("unexpected trend defaults: %+v", cfg.Trends)
	}
	if cfg.Batch.Target != 2 || cfg.Batch.MaxAttempts != 15 {
		t.Errorf("unexpected batch defaults: %+v", cfg.Batch)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("unexpected cache TTL default: %s", cfg.Cache.TTL)
	}
	if len(cfg.Trends.Subreddits) == 0 {
		t.Error("expected default subreddits")
	}
	if len(cfg.Safety.Blocklist) == 0 {
		t.Error("expected embedded blocklist to load")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TREND_SUBREDDITS", "dankmemes, me_irl")
	t.Setenv("BATCH_TARGET", "5")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("CACHE_WAIT", "false")

	cfg := Load()

	if len(cfg.Trends.Subreddits) != 2 || cfg.Trends.Subreddits[0] != "dankmemes" || cfg.Trends.Subreddits[1] != "me_irl" {
		t.Errorf("unexpected subreddits: %v", cfg.Trends.Subreddits)
	}
	if cfg.Batch.Target != 5 {
		t.Errorf("expected batch target 5, got %d", cfg.Batch.Target)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("expected cache TTL 2h, got %s", cfg.Cache.TTL)
	}
	if cfg.Cache.Wait {
		t.Error("expected CACHE_WAIT=false to disable waiting")
	}
}

func TestEnvHelpersIgnoreInvalidValues(t *testing.T) {
	t.Setenv("BATCH_TARGET", "not a number")
	t.Setenv("CACHE_TTL", "-5m")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()

	if cfg.Batch.Target != 2 {
		t.Errorf("expected invalid int to fall back to default, got %d", cfg.Batch.Target)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("expected negative duration to fall back to default, got %s", cfg.Cache.TTL)
	}
	if cfg.Artifacts.MinioUseSSL {
		t.Error("expected unparseable bool to fall back to default")
	}
}
