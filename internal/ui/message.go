package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/reelx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgDetailsLoaded
	MsgFavoriteToggled
	MsgFavoritesLoaded
	MsgBrowserOpened
)

type pageLoaded struct {
	page *models.MoviesPage
	err  error
}

type detailsLoaded struct {
	details *models.MovieDetails
	status  *models.FavoriteStatus
	err     error
}

type favoriteToggled struct {
	movieID int
	err     error
}

type favoritesLoaded struct {
	favorites []models.Favorite
	err       error
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]; a nil page means no pages remain.
func pageLoadedMsg(page *models.MoviesPage, err error) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{page, err}}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(details *models.MovieDetails, status *models.FavoriteStatus, err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: detailsLoaded{details, status, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(movieID int, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{movieID, err}}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(favs []models.Favorite, err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: favoritesLoaded{favs, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
