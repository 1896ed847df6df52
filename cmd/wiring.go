package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/memeforge/memeforge/internal/batch"
	"github.com/memeforge/memeforge/internal/cache"
	"github.com/memeforge/memeforge/internal/config"
	"github.com/memeforge/memeforge/internal/faceengine"
	"github.com/memeforge/memeforge/internal/guidance"
	"github.com/memeforge/memeforge/internal/safety"
	"github.com/memeforge/memeforge/internal/search"
	"github.com/memeforge/memeforge/internal/store"
	"github.com/memeforge/memeforge/internal/swap"
	"github.com/memeforge/memeforge/internal/trends"
)

// buildArtifactStore picks MinIO when an endpoint is configured, local
// disk otherwise.
func buildArtifactStore(cfg *config.Config) (store.Store, error) {
	if cfg.Artifacts.MinioEndpoint != "" {
		s, err := store.NewMinioStore(store.MinioOptions{
			Endpoint:  cfg.Artifacts.MinioEndpoint,
			AccessKey: cfg.Artifacts.MinioAccessKey,
			SecretKey: cfg.Artifacts.MinioSecretKey,
			Bucket:    cfg.Artifacts.MinioBucket,
			UseSSL:    cfg.Artifacts.MinioUseSSL,
			BaseURL:   cfg.Artifacts.MinioBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("could not set up minio artifact store: %w", err)
		}
		return s, nil
	}
	return store.NewDiskStore(cfg.Artifacts.Dir)
}

// buildTransformer wires the face engine client, reference face and
// optional Grok guidance into a transformer.
func buildTransformer(cfg *config.Config, withDedup bool) (*swap.Transformer, error) {
	if cfg.FaceEngine.URL == "" {
		return nil, errors.New("FACE_ENGINE_URL environment variable is required")
	}

	engine, err := faceengine.NewClient(cfg.FaceEngine.URL, cfg.FaceEngine.Timeout)
	if err != nil {
		return nil, err
	}

	artifacts, err := buildArtifactStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := swap.TransformerOptions{
		UserAgent: cfg.Reddit.UserAgent,
	}
	if withDedup {
		opts.Dedup = swap.NewDupFilter()
	}
	if grok := guidance.NewGrok(cfg.Grok.APIKey, cfg.Grok.BaseURL, cfg.Grok.Model); grok != nil {
		opts.Guide = grok
	}

	reference := faceengine.NewReferenceLoader(cfg.FaceEngine.ReferenceFacePath, engine)
	return swap.NewTransformer(engine, reference, artifacts, opts), nil
}

func buildFetcher(cfg *config.Config) (*trends.Fetcher, error) {
	reddit, err := trends.NewReddit(cfg.Reddit.BaseURL, cfg.Reddit.UserAgent)
	if err != nil {
		return nil, err
	}
	return trends.NewFetcher(
		reddit,
		safety.New(cfg.Safety.Blocklist),
		trends.FetcherOptions{
			PerGroupLimit: cfg.Trends.PerGroupLimit,
			MaxCandidates: cfg.Trends.MaxCandidates,
			FetchTimeout:  cfg.Trends.FetchTimeout,
			CacheTTL:      cfg.Trends.CacheTTL,
		},
	), nil
}

func buildSearch(cfg *config.Config) *search.Service {
	return search.NewService(
		search.NewWikimedia("", cfg.Reddit.UserAgent),
		search.NewDuckDuckGo("", cfg.Reddit.UserAgent),
	)
}

// buildRegenerator produces the cache regeneration function: fetch
// trending candidates, run a batch until the target yield, map successes
// to servable memes.
func buildRegenerator(cfg *config.Config, fetcher *trends.Fetcher, transformer *swap.Transformer) cache.RegenerateFunc {
	return func(ctx context.Context) ([]cache.Meme, error) {
		candidates := fetcher.Fetch(ctx, cfg.Trends.Subreddits)
		if len(candidates) == 0 {
			return nil, errors.New("no trend candidates available")
		}

		generator := batch.NewGenerator(transformer.Transform, batch.Options{
			Target:      cfg.Batch.Target,
			MaxAttempts: cfg.Batch.MaxAttempts,
			Concurrency: cfg.Batch.Concurrency,
			Shuffle:     true,
		})
		report := generator.Run(ctx, candidates)
		if len(report.Successes) == 0 {
			return nil, fmt.Errorf("no successful swaps in %d attempts", report.Attempts)
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
		return memes, nil
	}
}

func buildCache(cfg *config.Config, regenerate cache.RegenerateFunc) (*cache.Cache, error) {
	var backend cache.Backend
	if cfg.Cache.File != "" {
		fileBackend, err := cache.NewFileBackend(cfg.Cache.File)
		if err != nil {
			return nil, err
		}
		backend = fileBackend
	} else {
		backend = cache.NewMemoryBackend()
	}

	return cache.New(backend, regenerate, cache.Options{
		TTL:         cfg.Cache.TTL,
		Wait:        cfg.Cache.Wait,
		WaitTimeout: cfg.Cache.WaitTimeout,
	}), nil
}
