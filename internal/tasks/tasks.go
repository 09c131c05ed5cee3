package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/cache"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

// FavoritesLister returns the signed-in user's favorites; [favorites.Coordinator] satisfies it.
type FavoritesLister interface {
	List(ctx context.Context) ([]models.Favorite, error)
}

// Engine runs multi-request operations over the movie service and the shared cache.
type Engine struct {
	movies services.MovieService
	cache  *cache.Cache
	logger *log.Logger
}

// NewEngine creates an [Engine]. A nil cache gets a private one.
func NewEngine(movies services.MovieService, c *cache.Cache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NopLogger()
	}
	if c == nil {
		c = cache.New(cache.DefaultTTL, logger)
	}
	return &Engine{movies: movies, cache: c, logger: logger}
}

// Popular returns a new [PopularPager] sharing the engine's cache.
func (e *Engine) Popular() *PopularPager {
	return NewPopularPager(e.movies, e.cache)
}

// Details returns one movie's details through the cache.
func (e *Engine) Details(ctx context.Context, movieID int) (*models.MovieDetails, error) {
	if e.movies == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive, got %d", shared.ErrInvalidArgument, movieID)
	}
	return cache.FetchAs(ctx, e.cache, cache.MovieDetailsKey(movieID), true, cache.MovieDetailsTTL,
		func(ctx context.Context) (*models.MovieDetails, error) {
			return e.movies.MovieDetails(ctx, movieID)
		})
}

// ExportOpts configures [Engine.ExportFavorites].
type ExportOpts struct {
	Format  formatter.Format
	Path    string
	Owner   *models.User
	Posters bool
}

// ExportFavorites fetches the favorites list and writes it with the formatter.
func (e *Engine) ExportFavorites(ctx context.Context, prog chan<- ProgressUpdate, lister FavoritesLister, opts ExportOpts) ([]string, error) {
	if lister == nil {
		return nil, fmt.Errorf("%w: favorites not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(prog, fetchingFavoritesUpdate())
	favorites, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	files, err := formatter.WriteExport(favorites, opts.Owner, opts.Format, opts.Path, opts.Posters)
	if err != nil {
		return nil, err
	}

	e.sendProgress(prog, exportWrittenUpdate(string(opts.Format), files))
	e.logger.Info("exported favorites", "format", opts.Format, "count", len(favorites), "files", len(files))
	return files, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	sendProgress(progress, update)
}

func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
