package services

import (
	"context"

	"github.com/desertthunder/reelx/internal/models"
)

// AuthService signs users in.
type AuthService interface {
	// SignIn posts credentials and returns the token and user on success.
	SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error)
}

// MovieService reads the movie catalogue.
type MovieService interface {
	// PopularMovies returns one page of popular movies. Pages start at 1.
	PopularMovies(ctx context.Context, page int) (*models.MoviesPage, error)

	// MovieDetails returns the full record for a movie.
	MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error)
}

// FavoriteService manages the signed-in user's favorites.
type FavoriteService interface {
	FavoritesList(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, movieID int) error
	RemoveFavorite(ctx context.Context, movieID int) error
	CheckFavorite(ctx context.Context, movieID int) (*models.FavoriteStatus, error)
}

// TokenStore is the persisted access token as seen by the client.
type TokenStore interface {
	Get() (string, error)
	Remove() error
}

var (
	_ AuthService     = (*Client)(nil)
	_ MovieService    = (*Client)(nil)
	_ FavoriteService = (*Client)(nil)
)
