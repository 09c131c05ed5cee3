package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(ttl time.Duration) (*Cache, *clock) {
	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, nil)
	c.now = clk.Now
	return c, clk
}

func TestCache(t *testing.T) {
	t.Run("Set and Get", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Set("key1", "value1")

		val, found := c.Get("key1")
		if !found {
			t.Fatal("expected to find key1")
		}
		if val != "value1" {
			t.Errorf("expected value1, got %v", val)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		c, clk := newTestCache(time.Minute)
		c.Set("key1", "value1")

		clk.Advance(59 * time.Second)
		if _, found := c.Get("key1"); !found {
			t.Error("expected key1 to be fresh before its stale time")
		}

		clk.Advance(2 * time.Second)
		if _, found := c.Get("key1"); found {
			t.Error("expected key1 to be stale")
		}
		if val, found := c.Peek("key1"); !found || val != "value1" {
			t.Errorf("expected Peek to return stale value, got (%v, %v)", val, found)
		}
	})

	t.Run("SetWithTTL", func(t *testing.T) {
		c, clk := newTestCache(time.Hour)
		c.SetWithTTL("short", 1, time.Second)

		clk.Advance(2 * time.Second)
		if _, found := c.Get("short"); found {
			t.Error("expected custom ttl to apply")
		}
	})

	t.Run("Invalidate keeps value for Peek", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Set(FavoritesListKey, []string{"a"})
		c.Invalidate(FavoritesListKey)

		if _, found := c.Get(FavoritesListKey); found {
			t.Error("expected invalidated entry to be stale")
		}
		if _, found := c.Peek(FavoritesListKey); !found {
			t.Error("expected invalidated entry to remain peekable")
		}

		c.Invalidate("missing")
		if c.Len() != 1 {
			t.Errorf("expected invalidating a missing key to be a no-op, got %d entries", c.Len())
		}
	})

	t.Run("InvalidatePrefix", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Set(PopularMoviesKey(1), "p1")
		c.Set(PopularMoviesKey(2), "p2")
		c.Set(MovieDetailsKey(1), "d1")

		c.InvalidatePrefix("movies:popular:")

		if _, found := c.Get(PopularMoviesKey(1)); found {
			t.Error("expected page 1 to be stale")
		}
		if _, found := c.Get(PopularMoviesKey(2)); found {
			t.Error("expected page 2 to be stale")
		}
		if _, found := c.Get(MovieDetailsKey(1)); !found {
			t.Error("expected details to stay fresh")
		}
	})

	t.Run("Clear and Reset", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		c.Set("key1", "value1")
		c.Set("key2", "value2")

		c.Clear("key1")
		if _, found := c.Peek("key1"); found {
			t.Error("expected key1 to be cleared")
		}

		c.Reset()
		if c.Len() != 0 {
			t.Errorf("expected empty cache, got %d entries", c.Len())
		}
	})

	t.Run("keys", func(t *testing.T) {
		if FavoriteCheckKey(123) != "favorites:check:123" {
			t.Errorf("unexpected check key %s", FavoriteCheckKey(123))
		}
		if MovieDetailsKey(5) != "movies:details:5" || PopularMoviesKey(2) != "movies:popular:2" {
			t.Error("unexpected movie keys")
		}
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled query never calls fn", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		called := false

		_, err := c.Fetch(ctx, "k", false, time.Minute, func(context.Context) (any, error) {
			called = true
			return 1, nil
		})
		if !errors.Is(err, ErrDisabled) {
			t.Errorf("expected ErrDisabled, got %v", err)
		}
		if called {
			t.Error("expected fn not to be called")
		}
	})

	t.Run("caches result until stale", func(t *testing.T) {
		c, clk := newTestCache(time.Minute)
		calls := 0
		fn := func(context.Context) (any, error) {
			calls++
			return calls, nil
		}

		v1, _ := c.Fetch(ctx, "k", true, time.Minute, fn)
		v2, _ := c.Fetch(ctx, "k", true, time.Minute, fn)
		if v1 != 1 || v2 != 1 || calls != 1 {
			t.Errorf("expected one call with cached result, got v1=%v v2=%v calls=%d", v1, v2, calls)
		}

		clk.Advance(2 * time.Minute)
		v3, _ := c.Fetch(ctx, "k", true, time.Minute, fn)
		if v3 != 2 {
			t.Errorf("expected refetch after stale time, got %v", v3)
		}
	})

	t.Run("refetches after invalidation", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		calls := 0
		fn := func(context.Context) (any, error) {
			calls++
			return calls, nil
		}

		c.Fetch(ctx, "k", true, time.Minute, fn)
		c.Invalidate("k")
		v, _ := c.Fetch(ctx, "k", true, time.Minute, fn)
		if v != 2 {
			t.Errorf("expected refetched value 2, got %v", v)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		boom := errors.New("boom")

		if _, err := c.Fetch(ctx, "k", true, time.Minute, func(context.Context) (any, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if _, found := c.Peek("k"); found {
			t.Error("expected failed fetch to leave no entry")
		}
	})

	t.Run("concurrent fetches share one call", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		var calls atomic.Int32
		release := make(chan struct{})

		fn := func(context.Context) (any, error) {
			calls.Add(1)
			<-release
			return "value", nil
		}

		var wg sync.WaitGroup
		results := make([]any, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = c.Fetch(ctx, "k", true, time.Minute, fn)
			}(i)
		}

		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
		for i, r := range results {
			if r != "value" {
				t.Errorf("result %d: expected value, got %v", i, r)
			}
		}
	})

	t.Run("FetchAs", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)

		n, err := FetchAs(ctx, c, "n", true, time.Minute, func(context.Context) (int, error) { return 42, nil })
		if err != nil || n != 42 {
			t.Errorf("expected (42, nil), got (%d, %v)", n, err)
		}

		c.Set("s", "not an int")
		if _, err := FetchAs(ctx, c, "s", true, time.Minute, func(context.Context) (int, error) { return 0, nil }); err == nil {
			t.Error("expected type mismatch error")
		}
	})
}
