package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"golang.org/x/time/rate"
)

// DetailsOpts contains configuration for bulk details lookups.
type DetailsOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second across all workers (default: 5)
}

// DetailsResult is the outcome for one movie.
type DetailsResult struct {
	MovieID int
	Details *models.MovieDetails
	Error   error
}

// BulkDetailsResult collects every per-movie outcome.
type BulkDetailsResult struct {
	Total      int
	Successful int
	Failed     int
	Results    []DetailsResult
}

// FetchDetails looks up details for ids concurrently.
//
// Workers share one rate limiter. A failed lookup is recorded in the result and does not stop
// the others. Cancelling ctx stops dispatch; lookups already running finish or fail on their own.
func (e *Engine) FetchDetails(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts DetailsOpts) (*BulkDetailsResult, error) {
	if e.movies == nil {
		return nil, fmt.Errorf("%w: movie service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkDetailsResult{Total: len(ids), Results: make([]DetailsResult, 0, len(ids))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan int, len(ids))
	results := make(chan DetailsResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.detailsWorker(ctx, &wg, limiter, jobs, results)
	}

	e.sendProgress(prog, detailsStartedUpdate(len(ids)))
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.Successful++
			e.sendProgress(prog, detailsCompletedUpdate(completed, len(ids), res))
		} else {
			result.Failed++
			e.sendProgress(prog, detailsFailedUpdate(completed, len(ids), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// detailsWorker is a worker goroutine that fetches details for ids from the jobs channel.
func (e *Engine) detailsWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan int,
	results chan<- DetailsResult,
) {
	defer wg.Done()

	for id := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- DetailsResult{MovieID: id, Error: err}
			continue
		}

		details, err := e.Details(ctx, id)
		results <- DetailsResult{MovieID: id, Details: details, Error: err}
	}
}
