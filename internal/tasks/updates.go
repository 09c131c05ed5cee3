package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPopular Phase = iota
	FetchDetails
	FetchFavorites
	ExportFavorites
)

func (p Phase) String() string {
	switch p {
	case FetchPopular:
		return "fetch_popular"
	case FetchDetails:
		return "fetch_details"
	case FetchFavorites:
		return "fetch_favorites"
	case ExportFavorites:
		return "export_favorites"
	default:
		return ""
	}
}

func popularPageUpdate(page, totalPages, movies int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPopular,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("Fetched page %d/%d (%d movies)", page, totalPages, movies),
	}
}

func detailsStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching details for %d movies...", total),
	}
}

func detailsCompletedUpdate(step, total int, res DetailsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Details.Title),
		Data:    res.Details,
	}
}

func detailsFailedUpdate(step, total int, res DetailsResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ movie %d: %v", step, total, res.MovieID, res.Error),
	}
}

func fetchingFavoritesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavorites,
		Step:    1,
		Total:   2,
		Message: "Fetching favorites...",
	}
}

func exportWrittenUpdate(format string, files []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Wrote %s export (%d files)", format, len(files)),
		Data:    files,
	}
}
