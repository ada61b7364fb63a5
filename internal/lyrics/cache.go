package lyrics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"tunetalk/internal/logging"
)

// Store is an optional persistent tier consulted on in-memory misses.
type Store interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, lines []string) error
}

// Cache memoizes reference lines per (performer, title). A key is looked up
// remotely at most once per process; failures are cached as an empty corpus.
// It is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	store   Store
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string][]string
	group   singleflight.Group

	lookups atomic.Int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStore adds a persistent second tier.
func WithStore(store Store) CacheOption {
	return func(c *Cache) { c.store = store }
}

// WithLogger sets the logger used for lookup failures.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache wraps fetcher with an in-memory cache.
func NewCache(fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		fetcher: fetcher,
		logger:  logging.NewNop(),
		entries: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "lyrics")
	return c
}

// Lines returns the reference corpus for title by performer. Repeated calls
// for the same key return the same slice without touching the network. An
// empty result means no suppression for that item.
func (c *Cache) Lines(ctx context.Context, title, performer string) []string {
	key := Key(title, performer)

	c.mu.RLock()
	lines, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return lines
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		lines, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return lines, nil
		}
		lines, cacheable := c.resolve(ctx, key, title, performer)
		if cacheable {
			c.mu.Lock()
			c.entries[key] = lines
			c.mu.Unlock()
		}
		return lines, nil
	})
	return v.([]string)
}

// resolve consults the persistent store and then the remote service. The
// second return is false when the lookup was cut short by cancellation and
// must not be memoized.
func (c *Cache) resolve(ctx context.Context, key, title, performer string) ([]string, bool) {
	if c.store != nil {
		stored, found, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Debug("lyrics store read failed", logging.Error(err))
		case found:
			return stored, true
		}
	}

	if c.fetcher == nil {
		return []string{}, true
	}

	c.lookups.Add(1)
	text, err := c.fetcher.Fetch(ctx, performer, CleanTitle(title))
	if err != nil {
		if ctx.Err() != nil {
			return []string{}, false
		}
		if errors.Is(err, ErrNotFound) {
			c.logger.Info("lyrics not found, filtering without reference",
				logging.String(logging.FieldTitle, title),
				logging.String("performer", performer))
		} else {
			logging.WarnWithContext(c.logger, "lyrics lookup failed", "lyrics_lookup_failed",
				logging.String(logging.FieldTitle, title),
				logging.String("performer", performer),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check lyrics.base_url and network access"),
				logging.String(logging.FieldImpact, "comments quoting lyrics are not suppressed for this video"))
		}
		return []string{}, true
	}

	lines := SplitLines(text)
	if len(lines) > 0 && c.store != nil {
		if err := c.store.Set(ctx, key, lines); err != nil {
			c.logger.Debug("lyrics store write failed", logging.Error(err))
		}
	}
	return lines, true
}

// Len reports the number of memoized keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookups reports how many remote fetches the cache has issued.
func (c *Cache) Lookups() int64 {
	return c.lookups.Load()
}
