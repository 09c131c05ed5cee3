package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/reelx/internal/models"
)

const favoritesPath = "/api/movies/favorites"

// FavoritesList calls GET /api/movies/favorites/list.
func (c *Client) FavoritesList(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := c.do(ctx, http.MethodGet, favoritesPath+"/list", nil, nil, &favorites); err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

// AddFavorite calls POST /api/movies/favorites with {"movieId": id}.
func (c *Client) AddFavorite(ctx context.Context, movieID int) error {
	return c.do(ctx, http.MethodPost, favoritesPath, nil, models.AddFavoriteRequest{MovieID: movieID}, nil)
}

// RemoveFavorite calls DELETE /api/movies/favorites/{id}.
func (c *Client) RemoveFavorite(ctx context.Context, movieID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", favoritesPath, movieID), nil, nil, nil)
}

// CheckFavorite calls GET /api/movies/favorites/check/{id}.
func (c *Client) CheckFavorite(ctx context.Context, movieID int) (*models.FavoriteStatus, error) {
	var status models.FavoriteStatus
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/check/%d", favoritesPath, movieID), nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
