// package formatter renders favorites and movie details as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts csv, md/markdown, txt/text and json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (expected csv, md, txt or json)", shared.ErrInvalidFlag, s)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// posterURL resolves a poster path to a downloadable URL.
var posterURL = func(path string) string {
	return models.ImageURL(models.PosterSize, path)
}

// ExportToCSV renders favorites with columns: Movie ID, Title, Release Date, Rating, Added At
func ExportToCSV(favorites []models.Favorite) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Movie ID", "Title", "Release Date", "Rating", "Added At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, fav := range favorites {
		record := []string{
			strconv.Itoa(fav.MovieID),
			fav.MovieData.Title,
			fav.MovieData.ReleaseDate,
			strconv.FormatFloat(fav.MovieData.VoteAverage, 'f', 1, 64),
			fav.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders favorites as a numbered list. posters maps movie IDs to image links.
func ExportToMarkdown(favorites []models.Favorite, owner *models.User, posters map[int]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Favorites\n\n")
	if owner != nil {
		buf.WriteString(fmt.Sprintf("**User**: %s\n", owner.DisplayName()))
	}
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(favorites)))

	for i, fav := range favorites {
		m := fav.MovieData
		buf.WriteString(fmt.Sprintf("%d. **%s** (%s) ★ %.1f\n", i+1, m.Title, yearOf(m.ReleaseDate), m.VoteAverage))
		if img, ok := posters[fav.MovieID]; ok && img != "" {
			buf.WriteString(fmt.Sprintf("   ![%s](%s)\n", m.Title, img))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders favorites as plain text.
func ExportToText(favorites []models.Favorite) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(favorites)))
	for i, fav := range favorites {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [%d]\n", i+1, fav.MovieData.Title, yearOf(fav.MovieData.ReleaseDate), fav.MovieID))
	}

	return buf.Bytes(), nil
}

// DetailsCard renders a movie as a plain-text card.
func DetailsCard(v *models.MovieView, favorite *bool) []byte {
	var buf bytes.Buffer
	if v == nil {
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%s (%s)\n", v.Title, v.Year))
	if v.OriginalTitle != v.Title {
		buf.WriteString(fmt.Sprintf("Original title: %s\n", v.OriginalTitle))
	}
	buf.WriteString(fmt.Sprintf("Duration: %s\n", v.Duration))
	buf.WriteString(fmt.Sprintf("Genres: %s\n", v.Genres))
	buf.WriteString(fmt.Sprintf("Rating: %s\n", v.Rating))
	if favorite != nil {
		buf.WriteString(fmt.Sprintf("Favorite: %s\n", yesNo(*favorite)))
	}
	if v.PosterURL != "" {
		buf.WriteString(fmt.Sprintf("Poster: %s\n", v.PosterURL))
	}
	if v.Homepage != "" {
		buf.WriteString(fmt.Sprintf("Homepage: %s\n", v.Homepage))
	}
	buf.WriteString("\n")
	buf.WriteString(v.Synopsis)
	buf.WriteString("\n")

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult lists the files created by [WriteMarkdownExport].
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   int
}

// WriteMarkdownExport writes {dir}/README.md and, when withPosters is set, {dir}/posters/{id}.jpg.
//
// A poster that cannot be downloaded is skipped; the list entry is still written.
func WriteMarkdownExport(favorites []models.Favorite, owner *models.User, outputDir string, withPosters bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "favorites"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	posters := make(map[int]string)

	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		if err := os.MkdirAll(posterDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}

		for _, fav := range favorites {
			if fav.MovieData.PosterPath == "" {
				continue
			}
			data, err := DownloadImage(posterURL(fav.MovieData.PosterPath))
			if err != nil {
				continue
			}
			name := fmt.Sprintf("%d.jpg", fav.MovieID)
			path := filepath.Join(posterDir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				continue
			}
			posters[fav.MovieID] = "posters/" + name
			result.Files = append(result.Files, path)
			result.Posters++
		}
	}

	mdData, err := ExportToMarkdown(favorites, owner, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteExport renders favorites in format and writes them to path.
// Markdown exports treat path as a directory. Returns the files written.
func WriteExport(favorites []models.Favorite, owner *models.User, format Format, path string, withPosters bool) ([]string, error) {
	if path == "" {
		path = "favorites"
		if format != FormatMarkdown {
			path += format.Extension()
		}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatMarkdown:
		res, err := WriteMarkdownExport(favorites, owner, path, withPosters)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case FormatCSV:
		data, err = ExportToCSV(favorites)
	case FormatText:
		data, err = ExportToText(favorites)
	case FormatJSON:
		data, err = shared.MarshalJSON(favorites, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return []string{path}, nil
}

func yearOf(date string) string {
	if year, _, _ := strings.Cut(date, "-"); len(year) == 4 {
		return year
	}
	return "N/A"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
