package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memeforge/memeforge/internal/safety"
	"github.com/memeforge/memeforge/internal/trends"
)

type cannedProvider struct {
	byGroup map[string][]trends.Candidate
}

func (c *cannedProvider) Name() string { return "canned" }

func (c *cannedProvider) Hot(ctx context.Context, group string, limit int) ([]trends.Candidate, error) {
	return c.byGroup[group], nil
}

func newTrendsHandler(byGroup map[string][]trends.Candidate, subreddits []string) *TrendsHandler {
	fetcher := trends.NewFetcher(
		&cannedProvider{byGroup: byGroup},
		safety.New(nil),
		trends.FetcherOptions{},
	)
	return NewTrendsHandler(fetcher, subreddits)
}

func TestTrendsList(t *testing.T) {
	h := newTrendsHandler(map[string][]trends.Candidate{
		"memes": {
			{ID: "a", Title: "a meme", URL: "https://i.redd.it/a.jpg", Score: 100},
			{ID: "b", Title: "a gallery", URL: "https://reddit.com/gallery/b", Score: 500},
		},
	}, []string{"memes"})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Candidates []trends.Candidate `json:"candidates"`
		Count      int                `json:"count"`
	}
	decodeBody(t, rec, &resp)
	if resp.Count != 1 {
		t.Fatalf("expected the gallery URL to be filtered out, got %d candidates", resp.Count)
	}
	if resp.Candidates[0].ID != "a" {
		t.Errorf("unexpected candidate %+v", resp.Candidates[0])
	}
}

func TestTrendsList_SubredditOverride(t *testing.T) {
	h := newTrendsHandler(map[string][]trends.Candidate{
		"memes": {{ID: "a", Title: "default", URL: "https://i.redd.it/a.jpg"}},
		"aww":   {{ID: "b", Title: "override", URL: "https://i.redd.it/b.jpg"}},
	}, []string{"memes"})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trends?subreddits=aww", nil))

	var resp struct {
		Candidates []trends.Candidate `json:"candidates"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Candidates) != 1 || resp.Candidates[0].ID != "b" {
		t.Errorf("expected only the override subreddit's posts, got %+v", resp.Candidates)
	}
}
