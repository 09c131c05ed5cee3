package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/reelx/internal/cache"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
)

// PopularPager walks the popular movies endpoint one page at a time.
//
// The first [PopularPager.Next] loads page 1. Later calls load page+1 until the last loaded page
// reaches total_pages.
type PopularPager struct {
	svc   services.MovieService
	cache *cache.Cache

	mu    sync.Mutex
	pages []*models.MoviesPage
}

func NewPopularPager(svc services.MovieService, c *cache.Cache) *PopularPager {
	if c == nil {
		c = cache.New(cache.PopularMoviesTTL, nil)
	}
	return &PopularPager{svc: svc, cache: c}
}

// HasNext reports whether another page can be loaded.
func (p *PopularPager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextLocked() != 0
}

func (p *PopularPager) nextLocked() int {
	if len(p.pages) == 0 {
		return 1
	}
	return p.pages[len(p.pages)-1].NextPage()
}

// Next loads the following page. It returns (nil, nil) once every page has been loaded.
func (p *PopularPager) Next(ctx context.Context) (*models.MoviesPage, error) {
	if p.svc == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}

	p.mu.Lock()
	next := p.nextLocked()
	p.mu.Unlock()
	if next == 0 {
		return nil, nil
	}

	page, err := cache.FetchAs(ctx, p.cache, cache.PopularMoviesKey(next), true, cache.PopularMoviesTTL,
		func(ctx context.Context) (*models.MoviesPage, error) {
			return p.svc.PopularMovies(ctx, next)
		})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nextLocked() == next {
		p.pages = append(p.pages, page)
	}
	return page, nil
}

// Movies returns every movie loaded so far, in page order.
func (p *PopularPager) Movies() []models.Movie {
	p.mu.Lock()
	defer p.mu.Unlock()

	var movies []models.Movie
	for _, page := range p.pages {
		movies = append(movies, page.Results...)
	}
	return movies
}

// Loaded returns the number of pages loaded.
func (p *PopularPager) Loaded() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// Reset forgets loaded pages and invalidates the cached ones so the next walk refetches.
func (p *PopularPager) Reset() {
	p.mu.Lock()
	p.pages = nil
	p.mu.Unlock()
	p.cache.InvalidatePrefix("movies:popular:")
}

// Collect loads pages until none remain or maxPages have been loaded (0 means no limit).
func (p *PopularPager) Collect(ctx context.Context, maxPages int, prog chan<- ProgressUpdate) ([]models.Movie, error) {
	for p.HasNext() {
		if maxPages > 0 && p.Loaded() >= maxPages {
			break
		}
		page, err := p.Next(ctx)
		if err != nil {
			return p.Movies(), err
		}
		if page == nil {
			break
		}
		sendProgress(prog, popularPageUpdate(page.Page, page.TotalPages, len(page.Results)))
	}
	return p.Movies(), nil
}
