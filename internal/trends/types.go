package trends

import (
	"context"
	"time"
)

// Candidate is one externally sourced image eligible for transformation.
// Immutable once produced by a fetch cycle.
type Candidate struct {
	ID        string    `json:"id"`    // unique per source item
	Title     string    `json:"title"` // post title, input to the safety filter
	URL       string    `json:"url"`   // direct image URL
	Subreddit string    `json:"sub"`
	Score     int       `json:"score"`
	Flagged   bool      `json:"-"` // source's adult-content marker
	FetchedAt time.Time `json:"fetched_at"`
}

// Provider returns raw trending candidates for a single source group.
// Implementations may fail or rate-limit; the fetcher treats both as
// retryable at the next cycle.
type Provider interface {
	Name() string
	Hot(ctx context.Context, group string, limit int) ([]Candidate, error)
}
