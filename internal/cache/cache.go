// package cache is the client-side query cache shared by the favorites and movie consumers.
//
// Entries carry a stale time. [Cache.Get] only returns fresh entries; [Cache.Peek] also returns
// stale ones so callers can render the last known value while refetching. [Cache.Fetch] collapses
// concurrent loads of the same key into one call.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Stale times per query.
const (
	FavoriteCheckTTL = time.Minute
	FavoritesListTTL = 2 * time.Minute
	MovieDetailsTTL  = 10 * time.Minute
	PopularMoviesTTL = 5 * time.Minute

	DefaultTTL = time.Minute
)

const FavoritesListKey = "favorites:list"

// ErrDisabled is returned by [Cache.Fetch] when the query is disabled.
var ErrDisabled = errors.New("query disabled")

func FavoriteCheckKey(movieID int) string { return fmt.Sprintf("favorites:check:%d", movieID) }
func MovieDetailsKey(movieID int) string  { return fmt.Sprintf("movies:details:%d", movieID) }
func PopularMoviesKey(page int) string    { return fmt.Sprintf("movies:popular:%d", page) }

type entry struct {
	data        any
	expiresAt   time.Time
	invalidated bool
}

func (e entry) fresh(now time.Time) bool {
	return !e.invalidated && now.Before(e.expiresAt)
}

// Cache is a goroutine-safe key-value cache with per-entry stale times.
//
// Stale entries are kept until overwritten or cleared.
type Cache struct {
	mu     sync.RWMutex
	store  map[string]entry
	ttl    time.Duration
	group  singleflight.Group
	logger *log.Logger
	now    func() time.Time
}

// New creates a [Cache] whose [Cache.Set] uses ttl, falling back to [DefaultTTL].
func New(ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &Cache{store: make(map[string]entry), ttl: ttl, logger: logger, now: time.Now}
}

// Get returns the value at key if it is present and fresh.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		c.logger.Debug("cache miss", "key", key)
		return nil, false
	}

	if !e.fresh(c.now()) {
		c.logger.Debug("cache stale", "key", key)
		return nil, false
	}

	c.logger.Debug("cache hit", "key", key)
	return e.data, true
}

// Peek returns the last value stored at key, fresh or not.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	return e.data, ok
}

func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value at key, fresh for ttl.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.store[key] = entry{data: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	c.logger.Debug("cache set", "key", key, "ttl", ttl)
}

// Invalidate marks key stale so the next [Cache.Fetch] reloads it. The value stays visible to [Cache.Peek].
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked(key)
}

// InvalidatePrefix marks every key starting with prefix stale.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			c.invalidateLocked(key)
		}
	}
}

func (c *Cache) invalidateLocked(key string) {
	e, ok := c.store[key]
	if !ok {
		return
	}
	e.invalidated = true
	c.store[key] = e
	c.logger.Debug("cache invalidate", "key", key)
}

// Clear deletes key.
func (c *Cache) Clear(key string) {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
}

// Reset deletes every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	clear(c.store)
	c.mu.Unlock()
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Fetch returns the fresh value at key or loads it with fn and stores it for ttl.
//
// A disabled query returns [ErrDisabled] without calling fn. Concurrent fetches of the same key
// share one call to fn. Errors are returned to every waiter and are not cached.
func (c *Cache) Fetch(ctx context.Context, key string, enabled bool, ttl time.Duration, fn func(context.Context) (any, error)) (any, error) {
	if !enabled {
		return nil, ErrDisabled
	}
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, dup := c.group.Do(key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.SetWithTTL(key, v, ttl)
		return v, nil
	})
	if dup {
		c.logger.Debug("cache fetch shared", "key", key)
	}
	return v, err
}

// FetchAs is [Cache.Fetch] with a typed loader.
func FetchAs[T any](ctx context.Context, c *Cache, key string, enabled bool, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, enabled, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s has type %T", key, v)
	}
	return t, nil
}
