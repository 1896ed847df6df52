package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/memeforge/memeforge/internal/swap"
)

// SwapHandler runs one-off face swaps on caller-provided image URLs.
type SwapHandler struct {
	transformer *swap.Transformer
}

func NewSwapHandler(t *swap.Transformer) *SwapHandler {
	return &SwapHandler{transformer: t}
}

type swapResponse struct {
	Outcome  string `json:"outcome"`
	Artifact string `json:"artifact,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Get swaps the image at the URL given in the query string.
func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if !validImageURL(rawURL) {
		respondError(w, http.StatusBadRequest, "url parameter must be an absolute http(s) URL")
		return
	}

	h.run(w, r, rawURL)
}

type customSwapRequest struct {
	URL string `json:"url"`
}

// Custom is the POST variant used by the frontend.
func (h *SwapHandler) Custom(w http.ResponseWriter, r *http.Request) {
	var req customSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if !validImageURL(req.URL) {
		respondError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return
	}

	h.run(w, r, req.URL)
}

func (h *SwapHandler) run(w http.ResponseWriter, r *http.Request, rawURL string) {
	result := h.transformer.TransformURL(r.Context(), rawURL)

	resp := swapResponse{Outcome: string(result.Outcome), Artifact: result.Artifact}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}

	if !result.Success() {
		log.Printf("swap: %s failed for %s: %s", result.Outcome, sanitizeForLog(rawURL), resp.Error)
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func validImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
