package cache

import "time"

// Meme is one cached swap result ready to serve.
type Meme struct {
	Artifact  string    `json:"artifact"`
	Title     string    `json:"title"`
	Subreddit string    `json:"subreddit"`
	Score     int       `json:"score"`
	SourceURL string    `json:"source_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is a batch of memes stamped with its creation time. Freshness
// is evaluated against the stamp at read time, never stored.
type Snapshot struct {
	Memes     []Meme        `json:"memes"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// Valid reports whether the snapshot is still fresh at the given instant.
// A snapshot exactly at its TTL is already expired.
func (s *Snapshot) Valid(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.CreatedAt) < s.TTL
}

// Age returns how long ago the snapshot was created.
func (s *Snapshot) Age(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.CreatedAt)
}
