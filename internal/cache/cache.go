package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// RegenerateFunc produces a fresh batch of memes. It is expensive (a full
// fetch-and-swap run) which is exactly why the cache exists.
type RegenerateFunc func(ctx context.Context) ([]Meme, error)

// Options configures a Cache.
type Options struct {
	// TTL is how long a snapshot stays fresh. Expiry is strict: a
	// snapshot exactly TTL old is already stale.
	TTL time.Duration
	// Wait makes Current block on an in-flight regeneration instead of
	// returning stale data immediately.
	Wait bool
	// WaitTimeout bounds that blocking; on timeout Current falls back to
	// the stale snapshot when one exists.
	WaitTimeout time.Duration
}

// Cache serves the latest meme batch and transparently regenerates it
// when it expires. Regeneration is single-flight: concurrent requests
// against an expired cache trigger exactly one run, and it finishes even
// if every requester goes away.
type Cache struct {
	backend    Backend
	regenerate RegenerateFunc
	opts       Options

	mu      sync.Mutex
	running chan struct{} // non-nil while a regeneration is in flight

	now func() time.Time // test hook
}

func New(backend Backend, regenerate RegenerateFunc, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 2 * time.Minute
	}
	return &Cache{
		backend:    backend,
		regenerate: regenerate,
		opts:       opts,
		now:        time.Now,
	}
}

// Get returns the snapshot if one exists and is still fresh.
func (c *Cache) Get() (*Snapshot, bool) {
	snapshot, err := c.backend.Load()
	if err != nil {
		log.Printf("cache: load failed: %v", err)
		return nil, false
	}
	if !snapshot.Valid(c.now()) {
		return nil, false
	}
	return snapshot, true
}

// GetStale returns whatever snapshot exists, fresh or not.
func (c *Cache) GetStale() (*Snapshot, bool) {
	snapshot, err := c.backend.Load()
	if err != nil || snapshot == nil {
		return nil, false
	}
	return snapshot, true
}

// Put stores a freshly generated batch, stamping it now.
func (c *Cache) Put(memes []Meme) error {
	snapshot := &Snapshot{
		Memes:     memes,
		CreatedAt: c.now(),
		TTL:       c.opts.TTL,
	}
	if err := c.backend.Store(snapshot); err != nil {
		return fmt.Errorf("could not store snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot entirely. The next read observes an
// absent cache, not an expired one.
func (c *Cache) Invalidate() error {
	if err := c.backend.Clear(); err != nil {
		return fmt.Errorf("could not clear cache: %w", err)
	}
	return nil
}

// Current returns a fresh snapshot, regenerating when needed. With Wait
// enabled the caller blocks (up to WaitTimeout) for the regeneration;
// otherwise a stale snapshot is returned immediately while the new batch
// builds in the background. Returns an error only when nothing at all
// can be served.
func (c *Cache) Current(ctx context.Context) (*Snapshot, error) {
	if snapshot, ok := c.Get(); ok {
		return snapshot, nil
	}

	done := c.trigger()

	if !c.opts.Wait {
		if stale, ok := c.GetStale(); ok {
			return stale, nil
		}
		// Nothing to fall back on: wait for the first batch regardless.
	}

	select {
	case <-done:
	case <-time.After(c.opts.WaitTimeout):
		log.Printf("cache: regeneration still running after %s, serving stale", c.opts.WaitTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if snapshot, ok := c.Get(); ok {
		return snapshot, nil
	}
	if stale, ok := c.GetStale(); ok {
		return stale, nil
	}
	return nil, fmt.Errorf("no memes available and regeneration did not produce any")
}

// ForceRegenerate discards the current snapshot and synchronously builds
// a new one.
func (c *Cache) ForceRegenerate(ctx context.Context) (*Snapshot, error) {
	if err := c.Invalidate(); err != nil {
		return nil, err
	}

	select {
	case <-c.trigger():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	snapshot, ok := c.GetStale()
	if !ok {
		return nil, fmt.Errorf("regeneration did not produce a snapshot")
	}
	return snapshot, nil
}

// trigger starts a regeneration unless one is already running, and
// returns a channel closed when that run finishes. The run itself uses a
// background context so a disconnecting requester cannot abort it for
// the waiters that remain.
func (c *Cache) trigger() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running != nil {
		return c.running
	}

	done := make(chan struct{})
	c.running = done

	go func() {
		defer func() {
			c.mu.Lock()
			c.running = nil
			c.mu.Unlock()
			close(done)
		}()

		started := c.now()
		memes, err := c.regenerate(context.Background())
		if err != nil {
			log.Printf("cache: regeneration failed: %v", err)
			return
		}
		if err := c.Put(memes); err != nil {
			log.Printf("cache: could not store regenerated batch: %v", err)
			return
		}
		log.Printf("cache: regenerated %d memes in %s", len(memes), time.Since(started).Round(time.Millisecond))
	}()

	return done
}

// Status describes the cache state for operators.
type Status struct {
	Present      bool          `json:"present"`
	Valid        bool          `json:"valid"`
	Age          time.Duration `json:"age_ns"`
	Count        int           `json:"count"`
	CreatedAt    time.Time     `json:"created_at,omitempty"`
	Regenerating bool          `json:"regenerating"`
}

func (c *Cache) Status() Status {
	var status Status

	c.mu.Lock()
	status.Regenerating = c.running != nil
	c.mu.Unlock()

	snapshot, ok := c.GetStale()
	if !ok {
		return status
	}

	now := c.now()
	status.Present = true
	status.Valid = snapshot.Valid(now)
	status.Age = snapshot.Age(now)
	status.Count = len(snapshot.Memes)
	status.CreatedAt = snapshot.CreatedAt
	return status
}
