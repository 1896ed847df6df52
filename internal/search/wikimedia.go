package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const wikimediaDefaultURL = "https://en.wikipedia.org/w/api.php"

// nonPortraitMarkers appear in image titles that are never usable as a
// reference face (infobox decorations, signatures, maps).
var nonPortraitMarkers = []string{
	"icon", "logo", "signature", "flag", "map", "chart", "diagram",
}

// Wikimedia searches Wikipedia pages and returns each page's lead image.
type Wikimedia struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewWikimedia(baseURL, userAgent string) *Wikimedia {
	if baseURL == "" {
		baseURL = wikimediaDefaultURL
	}
	return &Wikimedia{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Wikimedia) Name() string {
	return "wikimedia"
}

type wikimediaResponse struct {
	Query struct {
		Pages map[string]struct {
			Title    string `json:"title"`
			Original *struct {
				Source string `json:"source"`
			} `json:"original"`
		} `json:"pages"`
	} `json:"query"`
}

// Search runs a full-text page search and collects the lead image of each
// matching page. Pages without a usable lead image are skipped.
func (w *Wikimedia) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	params := url.Values{
		"action":    {"query"},
		"format":    {"json"},
		"generator": {"search"},
		"gsrsearch": {query},
		"gsrlimit":  {strconv.Itoa(limit)},
		"prop":      {"pageimages"},
		"piprop":    {"original"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query wikimedia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikimedia returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read wikimedia response: %w", err)
	}

	var parsed wikimediaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("could not parse wikimedia response: %w", err)
	}

	var images []Image
	for _, page := range parsed.Query.Pages {
		if page.Original == nil || page.Original.Source == "" {
			continue
		}
		if !usableImageURL(page.Original.Source) {
			continue
		}
		images = append(images, Image{
			Title:  page.Title,
			URL:    page.Original.Source,
			Source: w.Name(),
		})
	}
	return images, nil
}

// usableImageURL rejects vector formats and images whose name marks them
// as decoration rather than a photo.
func usableImageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".gif") {
		return false
	}
	for _, marker := range nonPortraitMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
