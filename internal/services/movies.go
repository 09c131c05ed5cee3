package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/reelx/internal/models"
)

// PopularMovies calls GET /api/movies/popular?page=N. Pages below 1 are requested as 1.
func (c *Client) PopularMovies(ctx context.Context, page int) (*models.MoviesPage, error) {
	if page < 1 {
		page = 1
	}

	var result models.MoviesPage
	query := url.Values{"page": []string{strconv.Itoa(page)}}
	if err := c.do(ctx, http.MethodGet, "/api/movies/popular", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails calls GET /api/movies/{id}.
func (c *Client) MovieDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	var details models.MovieDetails
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/movies/%d", id), nil, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
