package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/reelx/internal/cache"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// MoviesPopular lists one page of popular movies, or every page with --all.
func (r *Runner) MoviesPopular(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var movies []models.Movie
	var header string

	if cmd.Bool("all") {
		prog, stop := r.watch()
		collected, err := r.engine.Popular().Collect(ctx, cmd.Int("max-pages"), prog)
		stop()
		if err != nil {
			return fmt.Errorf("failed to fetch popular movies: %w", err)
		}
		movies = collected
		header = fmt.Sprintf("Popular movies (%d)", len(movies))
	} else {
		page := max(cmd.Int("page"), 1)
		result, err := cache.FetchAs(ctx, r.cache, cache.PopularMoviesKey(page), true, cache.PopularMoviesTTL,
			func(ctx context.Context) (*models.MoviesPage, error) {
				return r.client.PopularMovies(ctx, page)
			})
		if err != nil {
			return fmt.Errorf("failed to fetch popular movies: %w", err)
		}
		movies = result.Results
		header = fmt.Sprintf("Popular movies, page %d of %d", result.Page, result.TotalPages)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	r.writePlainHeader(header)
	for _, m := range movies {
		r.writePlain("%-8d %-48s %-4s ★ %.1f\n", m.ID, truncate(m.Title, 48), yearOf(m.ReleaseDate), m.VoteAverage)
	}
	return nil
}

// MoviesShow prints a movie's details with its favorite status.
//
// Details and status are fetched concurrently; a status failure only drops the status line.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	var (
		details *models.MovieDetails
		status  *models.FavoriteStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := r.engine.Details(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch movie %d: %w", id, err)
		}
		details = d
		return nil
	})
	g.Go(func() error {
		st, err := r.favs.Check(gctx, id, true)
		if err != nil {
			r.logger.Warn("favorite status unavailable", "movie", id, "error", err)
			return nil
		}
		status = st
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	view := models.NewMovieView(details)
	if cmd.Bool("json") {
		return r.writeJSON(struct {
			*models.MovieDetails
			IsFavorite *bool `json:"isFavorite,omitempty"`
		}{details, favoriteFlag(status)}, true)
	}

	_, err = r.output.Write(formatter.DetailsCard(view, favoriteFlag(status)))
	return err
}

// MoviesOpen opens a movie's homepage, falling back to its TMDB page.
func (r *Runner) MoviesOpen(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	details, err := r.engine.Details(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}

	url := details.Homepage
	if url == "" {
		url = fmt.Sprintf("https://www.themoviedb.org/movie/%d", id)
	}
	r.logger.Info("opening browser", "url", url)
	if err := r.open(url); err != nil {
		return err
	}
	return r.writePlain("Opened %s\n", url)
}

func movieIDArg(cmd *cli.Command) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func favoriteFlag(status *models.FavoriteStatus) *bool {
	if status == nil {
		return nil
	}
	v := status.IsFavorite
	return &v
}

func yearOf(date string) string {
	if len(date) < 4 {
		return "----"
	}
	return date[:4]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
