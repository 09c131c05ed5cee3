package models

// Favorite is one entry of GET /api/movies/favorites/list.
type Favorite struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	MovieID   int    `json:"movieId"`
	CreatedAt string `json:"createdAt"`
	MovieData Movie  `json:"movieData"`
}

// FavoriteStatus is the body of GET /api/movies/favorites/check/{id}.
type FavoriteStatus struct {
	IsFavorite bool `json:"isFavorite"`
}

// AddFavoriteRequest is the body of POST /api/movies/favorites.
type AddFavoriteRequest struct {
	MovieID int `json:"movieId"`
}
