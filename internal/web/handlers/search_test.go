package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memeforge/memeforge/internal/search"
)

type cannedSearch struct {
	images []search.Image
	err    error
}

func (c *cannedSearch) Name() string { return "canned" }

func (c *cannedSearch) Search(ctx context.Context, query string, limit int) ([]search.Image, error) {
	return c.images, c.err
}

func TestSearchGet(t *testing.T) {
	h := NewSearchHandler(search.NewService(&cannedSearch{
		images: []search.Image{{Title: "Nicolas Cage", URL: "https://upload.wikimedia.org/cage.jpg"}},
	}))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=Nicolas+Cage", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Query  string         `json:"query"`
		Images []search.Image `json:"images"`
	}
	decodeBody(t, rec, &resp)
	if resp.Query != "Nicolas Cage" || len(resp.Images) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSearchGet_MissingQuery(t *testing.T) {
	h := NewSearchHandler(search.NewService(&cannedSearch{}))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSearchGet_ProviderFailure(t *testing.T) {
	h := NewSearchHandler(search.NewService(&cannedSearch{err: errors.New("rate limited")}))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=anyone", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}
