package models

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	notAvailable = "N/A"
	imageBaseURL = "https://image.tmdb.org/t/p/"

	PosterSize   = "w500"
	BackdropSize = "w1280"
)

// MovieView is the display-ready form of [MovieDetails].
type MovieView struct {
	ID            int
	Title         string
	OriginalTitle string
	PosterURL     string
	BackdropURL   string
	Synopsis      string
	Year          string
	Duration      string
	Genres        string
	Rating        string
	Homepage      string
}

// ImageURL builds a TMDB image URL for the given size, or "" when path is empty.
func ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + size + path
}

// NewMovieView formats d for rendering. Missing fields become "N/A".
func NewMovieView(d *MovieDetails) *MovieView {
	if d == nil {
		return nil
	}

	v := &MovieView{
		ID:            d.ID,
		Title:         orNA(d.Title),
		OriginalTitle: orNA(d.OriginalTitle),
		PosterURL:     ImageURL(PosterSize, d.PosterPath),
		BackdropURL:   ImageURL(BackdropSize, d.BackdropPath),
		Synopsis:      orNA(d.Overview),
		Year:          releaseYear(d.ReleaseDate),
		Duration:      notAvailable,
		Genres:        notAvailable,
		Rating:        strconv.FormatFloat(d.VoteAverage, 'f', 1, 64),
		Homepage:      d.Homepage,
	}

	if d.Runtime > 0 {
		v.Duration = fmt.Sprintf("%d min", d.Runtime)
	}

	if d.Genres != nil {
		names := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			names = append(names, g.Name)
		}
		v.Genres = strings.Join(names, ", ")
	}

	return v
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// releaseYear takes the leading year of a YYYY-MM-DD date.
func releaseYear(date string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if len(year) != 4 {
		return notAvailable
	}
	if _, err := strconv.Atoi(year); err != nil {
		return notAvailable
	}
	return year
}
