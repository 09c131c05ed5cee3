package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/reelx/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = favoriteItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("★ %.1f", i.movie.VoteAverage)
	if len(i.movie.ReleaseDate) >= 4 {
		desc = fmt.Sprintf("%s • %s", i.movie.ReleaseDate[:4], desc)
	}
	return desc
}

// favoriteItem wraps [models.Favorite] to implement [list.Item].
type favoriteItem struct {
	favorite models.Favorite
}

func (i favoriteItem) FilterValue() string { return i.favorite.MovieData.Title }
func (i favoriteItem) Title() string       { return i.favorite.MovieData.Title }
func (i favoriteItem) Description() string {
	return fmt.Sprintf("added %s", i.favorite.CreatedAt)
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func favoriteItems(favs []models.Favorite) []list.Item {
	items := make([]list.Item, len(favs))
	for i, f := range favs {
		items[i] = favoriteItem{favorite: f}
	}
	return items
}
