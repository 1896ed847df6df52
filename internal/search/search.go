// Package search finds reference face images for a named person, so a
// swap can use any celebrity instead of the bundled reference.
package search

import (
	"context"
	"fmt"
	"log"
)

// Image is one candidate reference image.
type Image struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Provider looks up images for a person by name.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Image, error)
}

// Service queries providers in order and returns the first useful
// results, deduplicated by URL and capped at limit.
type Service struct {
	providers []Provider
}

func NewService(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// Search returns up to limit images for the query. Provider failures are
// logged and the next provider is tried; an error means every provider
// failed.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	if limit < 1 {
		limit = 5
	}

	var lastErr error
	for _, provider := range s.providers {
		images, err := provider.Search(ctx, query, limit)
		if err != nil {
			log.Printf("search: %s failed for %q: %v", provider.Name(), query, err)
			lastErr = err
			continue
		}
		if len(images) == 0 {
			continue
		}
		return dedupe(images, limit), nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all image providers failed: %w", lastErr)
	}
	return nil, nil
}

func dedupe(images []Image, limit int) []Image {
	seen := make(map[string]struct{}, len(images))
	out := make([]Image, 0, min(len(images), limit))
	for _, img := range images {
		if _, ok := seen[img.URL]; ok {
			continue
		}
		seen[img.URL] = struct{}{}
		out = append(out, img)
		if len(out) == limit {
			break
		}
	}
	return out
}
