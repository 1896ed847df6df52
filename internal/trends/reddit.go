package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Reddit is a client for the public Reddit JSON listing API.
type Reddit struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
}

// NewReddit creates a Reddit trend provider. baseURL is normally
// https://www.reddit.com; tests point it at a local server.
func NewReddit(baseURL, userAgent string) (*Reddit, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse reddit base URL: %w", err)
	}
	return &Reddit{
		baseURL:   parsed,
		userAgent: userAgent,
		client:    &http.Client{},
	}, nil
}

func (r *Reddit) Name() string {
	return "reddit"
}

// listing mirrors the subset of the Reddit listing response we consume.
type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string  `json:"id"`
				Title     string  `json:"title"`
				URL       string  `json:"url"`
				Subreddit string  `json:"subreddit"`
				Score     int     `json:"score"`
				Over18    bool    `json:"over_18"`
				Created   float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Hot fetches up to limit posts from the subreddit's hot listing.
func (r *Reddit) Hot(ctx context.Context, subreddit string, limit int) ([]Candidate, error) {
	u := r.baseURL.JoinPath("r", subreddit, "hot.json")
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("raw_json", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing request for r/%s failed with status %d", subreddit, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var list listing
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("could not unmarshal listing: %w", err)
	}

	now := time.Now().UTC()
	candidates := make([]Candidate, 0, len(list.Data.Children))
	for _, child := range list.Data.Children {
		candidates = append(candidates, Candidate{
			ID:        child.Data.ID,
			Title:     child.Data.Title,
			URL:       child.Data.URL,
			Subreddit: child.Data.Subreddit,
			Score:     child.Data.Score,
			Flagged:   child.Data.Over18,
			FetchedAt: now,
		})
	}
	return candidates, nil
}
