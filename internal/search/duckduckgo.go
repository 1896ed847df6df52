package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const duckduckgoDefaultURL = "https://api.duckduckgo.com/"

// DuckDuckGo uses the instant-answer API as a fallback image source. It
// yields at most one image per query (the topic image) but needs no API
// key and covers people Wikipedia search misses.
type DuckDuckGo struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewDuckDuckGo(baseURL, userAgent string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = duckduckgoDefaultURL
	}
	return &DuckDuckGo{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

type duckduckgoResponse struct {
	Heading string `json:"Heading"`
	Image   string `json:"Image"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	params := url.Values{
		"q":       {query},
		"format":  {"json"},
		"no_html": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read duckduckgo response: %w", err)
	}

	var parsed duckduckgoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse duckduckgo response: %w", err)
	}

	if parsed.Image == "" {
		return nil, nil
	}

	imageURL := parsed.Image
	// Topic images come back as paths relative to duckduckgo.com.
	if strings.HasPrefix(imageURL, "/") {
		imageURL = "https://duckduckgo.com" + imageURL
	}

	title := parsed.Heading
	if title == "" {
		title = query
	}
	return []Image{{Title: title, URL: imageURL, Source: d.Name()}}, nil
}
