// package favorites coordinates adding and removing favorites against the query cache.
//
// [Coordinator.Toggle] picks the add or remove mutation from the caller's view of the current
// status. On success the cached check entry for the movie is overwritten with the new status
// and the cached list is invalidated. On failure the cache is left as it was.
package favorites

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/cache"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

// mutation tracks in-flight calls and the last error of one operation.
type mutation struct {
	mu      sync.Mutex
	pending int
	err     error
}

func (m *mutation) start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending++
	m.err = nil
}

func (m *mutation) finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending--
	m.err = err
}

func (m *mutation) state() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0, m.err
}

// Coordinator owns the add and remove mutations for one client.
type Coordinator struct {
	svc    services.FavoriteService
	cache  *cache.Cache
	logger *log.Logger

	add    mutation
	remove mutation
}

// NewCoordinator creates a [Coordinator]. A nil cache gets a private one.
func NewCoordinator(svc services.FavoriteService, c *cache.Cache, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NopLogger()
	}
	if c == nil {
		c = cache.New(cache.DefaultTTL, logger)
	}
	return &Coordinator{svc: svc, cache: c, logger: logger}
}

// Toggle removes the movie when currentlyFavorited is true and adds it otherwise.
//
// The flag is trusted as given; no status lookup happens first. The returned error is the
// normalized [*services.APIError] from the failing call.
func (c *Coordinator) Toggle(ctx context.Context, movieID int, currentlyFavorited bool) error {
	if currentlyFavorited {
		return c.Remove(ctx, movieID)
	}
	return c.Add(ctx, movieID)
}

// Add runs the add mutation.
func (c *Coordinator) Add(ctx context.Context, movieID int) error {
	c.add.start()
	err := c.svc.AddFavorite(ctx, movieID)
	err = c.settle("add", movieID, true, err)
	c.add.finish(err)
	return err
}

// Remove runs the remove mutation.
func (c *Coordinator) Remove(ctx context.Context, movieID int) error {
	c.remove.start()
	err := c.svc.RemoveFavorite(ctx, movieID)
	err = c.settle("remove", movieID, false, err)
	c.remove.finish(err)
	return err
}

// settle applies the cache update for a successful mutation, or logs and normalizes a failure.
func (c *Coordinator) settle(op string, movieID int, isFavorite bool, err error) error {
	if err != nil {
		apiErr := services.AsAPIError(err)
		c.logger.Error("favorite mutation failed",
			"op", op, "movie", movieID, "status", apiErr.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	c.cache.SetWithTTL(cache.FavoriteCheckKey(movieID), &models.FavoriteStatus{IsFavorite: isFavorite}, cache.FavoriteCheckTTL)
	c.cache.Invalidate(cache.FavoritesListKey)
	c.logger.Debug("favorite mutation applied", "op", op, "movie", movieID, "favorite", isFavorite)
	return nil
}

// IsLoading reports whether an add or remove is in flight.
func (c *Coordinator) IsLoading() bool {
	addPending, _ := c.add.state()
	removePending, _ := c.remove.state()
	return addPending || removePending
}

// Err returns the last add error, or else the last remove error.
func (c *Coordinator) Err() error {
	if _, err := c.add.state(); err != nil {
		return err
	}
	_, err := c.remove.state()
	return err
}

// Check returns the favorite status of movieID through the cache.
// A disabled check sends no request and returns [cache.ErrDisabled].
func (c *Coordinator) Check(ctx context.Context, movieID int, enabled bool) (*models.FavoriteStatus, error) {
	return cache.FetchAs(ctx, c.cache, cache.FavoriteCheckKey(movieID), enabled, cache.FavoriteCheckTTL,
		func(ctx context.Context) (*models.FavoriteStatus, error) {
			return c.svc.CheckFavorite(ctx, movieID)
		})
}

// Cached returns the last known status for movieID without fetching, fresh or stale.
func (c *Coordinator) Cached(movieID int) (*models.FavoriteStatus, bool) {
	v, ok := c.cache.Peek(cache.FavoriteCheckKey(movieID))
	if !ok {
		return nil, false
	}
	status, ok := v.(*models.FavoriteStatus)
	return status, ok
}

// List returns the favorites list through the cache.
func (c *Coordinator) List(ctx context.Context) ([]models.Favorite, error) {
	return cache.FetchAs(ctx, c.cache, cache.FavoritesListKey, true, cache.FavoritesListTTL, c.svc.FavoritesList)
}
