package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/memeforge/memeforge/internal/search"
)

// SearchHandler finds reference face images for a named person.
type SearchHandler struct {
	service *search.Service
}

func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 5
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 20 {
			limit = n
		}
	}

	images, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("search: %q failed: %v", sanitizeForLog(query), err)
		respondError(w, http.StatusBadGateway, "image search is unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"query":  query,
		"images": images,
	})
}
