package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	th "github.com/desertthunder/reelx/internal/testing"
)

func sampleFavorites() []models.Favorite {
	return []models.Favorite{
		{
			ID:        "fav1",
			UserID:    "1",
			MovieID:   550,
			CreatedAt: "2024-03-01T10:00:00Z",
			MovieData: models.Movie{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.43, PosterPath: "/fc.jpg"},
		},
		{
			ID:        "fav2",
			UserID:    "1",
			MovieID:   13,
			CreatedAt: "2024-03-02T10:00:00Z",
			MovieData: models.Movie{ID: 13, Title: "Forrest Gump, the Movie", ReleaseDate: "1994-07-06", VoteAverage: 8.5},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleFavorites())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Movie ID,Title,Release Date,Rating,Added At") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "550,Fight Club,1999-10-15,8.4,2024-03-01T10:00:00Z") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Forrest Gump, the Movie"`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
	})

	t.Run("ExportToCSV empty", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if lines := strings.Count(string(data), "\n"); lines != 1 {
			t.Errorf("expected header only, got %d lines", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		owner := &models.User{ID: "1", Username: "alice", Name: "Alice"}
		data, err := ExportToMarkdown(sampleFavorites(), owner, map[int]string{550: "posters/550.jpg"})
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Favorites", "**User**: Alice", "**Movies**: 2", "1. **Fight Club** (1999) ★ 8.4", "![Fight Club](posters/550.jpg)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleFavorites())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Favorites: 2") || !strings.Contains(output, "1. Fight Club (1999) [550]") {
			t.Errorf("unexpected text output: %s", output)
		}
	})

	t.Run("DetailsCard", func(t *testing.T) {
		view := models.NewMovieView(&models.MovieDetails{
			Movie:   models.Movie{ID: 550, Title: "Fight Club", OriginalTitle: "Fight Club", ReleaseDate: "1999-10-15", VoteAverage: 8.4, Overview: "An insomniac office worker..."},
			Runtime: 139,
		})
		fav := true

		output := string(DetailsCard(view, &fav))
		for _, want := range []string{"Fight Club (1999)", "Duration: 139 min", "Rating: 8.4", "Favorite: yes", "An insomniac"} {
			if !strings.Contains(output, want) {
				t.Errorf("card missing %q, got: %s", want, output)
			}
		}
		if strings.Contains(output, "Original title") {
			t.Error("card should skip an original title equal to the title")
		}

		if len(DetailsCard(nil, nil)) != 0 {
			t.Error("expected empty card for nil view")
		}
	})

	t.Run("ParseFormat", func(t *testing.T) {
		tc := map[string]Format{"csv": FormatCSV, "MD": FormatMarkdown, "markdown": FormatMarkdown, "text": FormatText, "json": FormatJSON}
		for in, want := range tc {
			got, err := ParseFormat(in)
			if err != nil || got != want {
				t.Errorf("ParseFormat(%q) = (%q, %v), want %q", in, got, err, want)
			}
		}

		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("non-200", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL + "/missing.jpg"); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "favorites.csv")

		files, err := WriteExport(sampleFavorites(), nil, FormatCSV, path, false)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if len(files) != 1 || files[0] != path {
			t.Errorf("expected [%s], got %v", path, files)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Fight Club") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("WriteExport json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")

		if _, err := WriteExport(sampleFavorites(), nil, FormatJSON, path, false); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		var decoded []models.Favorite
		if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &decoded); err != nil {
			t.Fatalf("expected valid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0].MovieData.Title != "Fight Club" {
			t.Errorf("unexpected decoded favorites %+v", decoded)
		}
	})

	t.Run("WriteExport txt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.txt")
		if _, err := WriteExport(sampleFavorites(), nil, FormatText, path, false); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
	})

	t.Run("WriteExport unknown format", func(t *testing.T) {
		if _, err := WriteExport(nil, nil, Format("xml"), filepath.Join(t.TempDir(), "x"), false); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("WriteExport to unwritable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := WriteExport(sampleFavorites(), nil, FormatCSV, filepath.Join(blocker, "favorites.csv"), false); err == nil {
			t.Error("expected error when parent is a file")
		}
	})

	t.Run("WriteMarkdownExport with posters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/w500/fc.jpg" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		original := posterURL
		posterURL = func(path string) string { return server.URL + "/w500" + path }
		t.Cleanup(func() { posterURL = original })

		dir := filepath.Join(t.TempDir(), "favorites")
		res, err := WriteMarkdownExport(sampleFavorites(), nil, dir, true)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if res.Posters != 1 {
			t.Errorf("expected 1 poster, got %d", res.Posters)
		}
		th.AssertFileExists(t, filepath.Join(dir, "posters", "550.jpg"))
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Fight Club](posters/550.jpg)") {
			t.Errorf("README missing poster link: %s", readme)
		}
		if strings.Contains(readme, "![Forrest") {
			t.Error("README should not link a missing poster")
		}
	})
}
