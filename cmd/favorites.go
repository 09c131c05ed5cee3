package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the signed-in user's favorites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	favs, err := r.favs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch favorites: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(favs, true)
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(favs)))
	if len(favs) == 0 {
		return r.writePlain("No favorites yet. Add one with 'reelx favorites add <id>'.\n")
	}
	for _, f := range favs {
		r.writePlain("%-8d %-48s %-4s ★ %.1f\n", f.MovieID, truncate(f.MovieData.Title, 48), yearOf(f.MovieData.ReleaseDate), f.MovieData.VoteAverage)
	}
	return nil
}

// FavoritesAdd adds a movie to favorites.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd, func(ctx context.Context, id int) (bool, error) {
		return true, r.favs.Add(ctx, id)
	})
}

// FavoritesRemove removes a movie from favorites.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd, func(ctx context.Context, id int) (bool, error) {
		return false, r.favs.Remove(ctx, id)
	})
}

// FavoritesToggle reads the current status, then adds or removes the movie.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	return r.mutateFavorite(ctx, cmd, func(ctx context.Context, id int) (bool, error) {
		status, err := r.favs.Check(ctx, id, true)
		if err != nil {
			return false, fmt.Errorf("failed to read favorite status: %w", err)
		}
		return !status.IsFavorite, r.favs.Toggle(ctx, id, status.IsFavorite)
	})
}

func (r *Runner) mutateFavorite(ctx context.Context, cmd *cli.Command, fn func(context.Context, int) (bool, error)) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	added, err := fn(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	if added {
		return r.writePlain("✓ Added movie %d to favorites\n", id)
	}
	return r.writePlain("✓ Removed movie %d from favorites\n", id)
}

// FavoritesCheck reports whether a movie is a favorite.
func (r *Runner) FavoritesCheck(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}

	status, err := r.favs.Check(ctx, id, true)
	if err != nil {
		return fmt.Errorf("failed to check movie %d: %w", id, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, false)
	}
	if status.IsFavorite {
		return r.writePlain("★ Movie %d is a favorite\n", id)
	}
	return r.writePlain("☆ Movie %d is not a favorite\n", id)
}

// FavoritesExport writes favorites to disk in the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	prog, stop := r.watch()
	files, err := r.engine.ExportFavorites(ctx, prog, r.favs, tasks.ExportOpts{
		Format:  format,
		Path:    cmd.String("output"),
		Owner:   r.session.Snapshot().User,
		Posters: cmd.Bool("posters"),
	})
	stop()
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported favorites as %s\n", format)
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// FavoritesDetails fetches full details for every favorite with a bounded worker pool.
func (r *Runner) FavoritesDetails(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	favs, err := r.favs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch favorites: %w", err)
	}
	ids := make([]int, len(favs))
	for i, f := range favs {
		ids[i] = f.MovieID
	}

	prog, stop := r.watch()
	result, err := r.engine.FetchDetails(ctx, prog, ids, tasks.DetailsOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type entry struct {
			MovieID int                  `json:"movieId"`
			Details *models.MovieDetails `json:"details,omitempty"`
			Error   string               `json:"error,omitempty"`
		}
		entries := make([]entry, len(result.Results))
		for i, res := range result.Results {
			entries[i] = entry{MovieID: res.MovieID, Details: res.Details}
			if res.Error != nil {
				entries[i].Error = services.AsAPIError(res.Error).Message
			}
		}
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Favorite details (%d/%d)", result.Successful, result.Total))
	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("✗ %-8d %s\n", res.MovieID, services.AsAPIError(res.Error).Message)
			continue
		}
		v := res.Details
		r.writePlain("✓ %-8d %-40s %4d min  %s\n", v.ID, truncate(v.Title, 40), v.Runtime, yearOf(v.ReleaseDate))
	}
	if result.Failed > 0 {
		return r.writePlainln("%d lookups failed", result.Failed)
	}
	return nil
}
