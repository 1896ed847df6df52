package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/memeforge/memeforge/internal/cache"
)

// MemesHandler serves the cached meme batch and its lifecycle operations.
type MemesHandler struct {
	cache *cache.Cache
}

func NewMemesHandler(c *cache.Cache) *MemesHandler {
	return &MemesHandler{cache: c}
}

type memesResponse struct {
	Memes     []cache.Meme `json:"memes"`
	CreatedAt time.Time    `json:"created_at"`
	Stale     bool         `json:"stale"`
}

// List returns the current batch, regenerating it first when expired.
func (h *MemesHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.cache.Current(r.Context())
	if err != nil {
		log.Printf("memes: could not produce a batch: %v", err)
		respondError(w, http.StatusServiceUnavailable, "no memes available, try again shortly")
		return
	}

	respondJSON(w, http.StatusOK, memesResponse{
		Memes:     snapshot.Memes,
		CreatedAt: snapshot.CreatedAt,
		Stale:     !snapshot.Valid(time.Now()),
	})
}

// Regenerate discards the batch and synchronously builds a new one.
func (h *MemesHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.cache.ForceRegenerate(r.Context())
	if err != nil {
		log.Printf("memes: forced regeneration failed: %v", err)
		respondError(w, http.StatusInternalServerError, "regeneration failed")
		return
	}

	respondJSON(w, http.StatusOK, memesResponse{
		Memes:     snapshot.Memes,
		CreatedAt: snapshot.CreatedAt,
	})
}

// Status reports cache freshness for operators and the frontend.
func (h *MemesHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cache.Status())
}

// Invalidate drops the batch without building a replacement.
func (h *MemesHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Invalidate(); err != nil {
		log.Printf("memes: invalidation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not invalidate cache")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
