package handlers

import (
	"net/http"
	"strings"

	"github.com/memeforge/memeforge/internal/trends"
)

// TrendsHandler exposes the filtered candidate list, mostly for debugging
// what the batch generator is about to work with.
type TrendsHandler struct {
	fetcher    *trends.Fetcher
	subreddits []string
}

func NewTrendsHandler(fetcher *trends.Fetcher, subreddits []string) *TrendsHandler {
	return &TrendsHandler{fetcher: fetcher, subreddits: subreddits}
}

// List returns current candidates. The configured subreddits can be
// overridden with ?subreddits=a,b for experimentation.
func (h *TrendsHandler) List(w http.ResponseWriter, r *http.Request) {
	subreddits := h.subreddits
	if override := r.URL.Query().Get("subreddits"); override != "" {
		subreddits = nil
		for _, s := range strings.Split(override, ",") {
			if s = strings.TrimSpace(s); s != "" {
				subreddits = append(subreddits, s)
			}
		}
	}

	candidates := h.fetcher.Fetch(r.Context(), subreddits)
	respondJSON(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
