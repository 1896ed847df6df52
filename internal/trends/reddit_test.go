package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReddit_Hot(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {"children": [
				{"data": {"id": "p1", "title": "First", "url": "https://i.redd.it/p1.jpg", "subreddit": "memes", "score": 42, "over_18": false}},
				{"data": {"id": "p2", "title": "Second", "url": "https://i.redd.it/p2.jpg", "subreddit": "memes", "score": 7, "over_18": true}}
			]}
		}`))
	}))
	defer server.Close()

	r, err := NewReddit(server.URL, "memeforge-test/1.0")
	if err != nil {
		t.Fatalf("NewReddit failed: %v", err)
	}

	candidates, err := r.Hot(context.Background(), "memes", 15)
	if err != nil {
		t.Fatalf("Hot failed: %v", err)
	}

	if gotPath != "/r/memes/hot.json" {
		t.Errorf("expected listing path /r/memes/hot.json, got %s", gotPath)
	}
	if gotUA != "memeforge-test/1.0" {
		t.Errorf("expected custom user agent, got %q", gotUA)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "p1" || candidates[0].Score != 42 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if !candidates[1].Flagged {
		t.Error("expected over_18 post to be flagged")
	}
}

func TestReddit_Hot_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	r, err := NewReddit(server.URL, "memeforge-test/1.0")
	if err != nil {
		t.Fatalf("NewReddit failed: %v", err)
	}

	if _, err := r.Hot(context.Background(), "memes", 15); err == nil {
		t.Error("expected error for non-200 response")
	}
}
