package trends

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/memeforge/memeforge/internal/safety"
)

// imageHosts serve direct images even when the URL carries no extension.
var imageHosts = []string{"i.redd.it", "i.imgur.com"}

// imageExtensions accepted as static raster formats.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// IsImageURL reports whether a candidate URL points at a static raster image.
func IsImageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, host := range imageHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	// Strip query string before the extension check.
	if idx := strings.IndexByte(lower, '?'); idx >= 0 {
		lower = lower[:idx]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	PerGroupLimit int           // raw posts requested per group (over-fetch)
	MaxCandidates int           // cap on the merged result
	FetchTimeout  time.Duration // per-group request timeout
	CacheTTL      time.Duration // memoization window for identical group sets
}

// Fetcher pulls candidates from a trend provider, filters them for safety,
// dedupes and ranks them. Fetch results are memoized with a short TTL so the
// provider is not hammered on every page load.
type Fetcher struct {
	provider Provider
	filter   *safety.Filter
	opts     FetcherOptions

	mu        sync.Mutex
	cached    []Candidate
	cachedKey string
	fetchedAt time.Time
}

func NewFetcher(provider Provider, filter *safety.Filter, opts FetcherOptions) *Fetcher {
	if opts.PerGroupLimit <= 0 {
		opts.PerGroupLimit = 15
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 20
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Fetcher{
		provider: provider,
		filter:   filter,
		opts:     opts,
	}
}

// Fetch returns an ordered candidate list for the given source groups,
// sorted by score descending and capped at MaxCandidates.
//
// Groups are fetched concurrently with a per-group timeout. A failing group
// is logged and skipped; an entirely empty result is valid and not an error.
func (f *Fetcher) Fetch(ctx context.Context, groups []string) []Candidate {
	key := strings.Join(groups, "|")

	f.mu.Lock()
	if f.cachedKey == key && f.opts.CacheTTL > 0 && time.Since(f.fetchedAt) < f.opts.CacheTTL {
		cached := f.cached
		f.mu.Unlock()
		return cached
	}
	f.mu.Unlock()

	// Fetch every group concurrently into its own slot so the merge order
	// (and therefore dedup) stays deterministic.
	results := make([][]Candidate, len(groups))
	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(idx int, group string) {
			defer wg.Done()

			groupCtx, cancel := context.WithTimeout(ctx, f.opts.FetchTimeout)
			defer cancel()

			candidates, err := f.provider.Hot(groupCtx, group, f.opts.PerGroupLimit)
			if err != nil {
				log.Printf("trends: fetching %s from %s failed: %v", group, f.provider.Name(), err)
				return
			}
			results[idx] = candidates
		}(i, group)
	}
	wg.Wait()

	// Merge in group order: image-only, safety filter, dedupe first-seen-wins.
	seen := make(map[string]struct{})
	var merged []Candidate
	for _, groupResult := range results {
		for _, c := range groupResult {
			if !IsImageURL(c.URL) {
				continue
			}
			if !f.filter.IsAdmissible(c.Title, c.Flagged) {
				continue
			}
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > f.opts.MaxCandidates {
		merged = merged[:f.opts.MaxCandidates]
	}

	f.mu.Lock()
	f.cached = merged
	f.cachedKey = key
	f.fetchedAt = time.Now()
	f.mu.Unlock()

	return merged
}

// InvalidateCache drops the memoized fetch result so the next Fetch hits the
// provider again.
func (f *Fetcher) InvalidateCache() {
	f.mu.Lock()
	f.cachedKey = ""
	f.cached = nil
	f.mu.Unlock()
}
