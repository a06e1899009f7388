package tasks

import (
	"fmt"

	"github.com/desertthunder/reel/internal/models"
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
	SaveRecord Phase = iota
	UploadPoster
	FetchPage
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case SaveRecord:
		return "save_record"
	case UploadPoster:
		return "upload_poster"
	case FetchPage:
		return "fetch_page"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

// sendProgress sends update without blocking. A nil channel drops it.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func saveRecordUpdate(step, total int, op Operation, title string) ProgressUpdate {
	verb := "Creating"
	if op == OpUpdate {
		verb = "Updating"
	}
	return ProgressUpdate{
		Phase:   SaveRecord,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s movie %q...", verb, title),
	}
}

func uploadPosterUpdate(step, total int, m *models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Uploading poster for %s (ID: %s)...", m.Title, m.ID),
		Data:    m,
	}
}

func fetchPageUpdate(page, totalPages int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("Fetching page %d of %d...", page, totalPages),
	}
}

func fetchedPageUpdate(page, totalPages int, p *models.MoviePage) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   totalPages,
		Message: fmt.Sprintf("Fetched %d movies from page %d", len(p.Data), page),
		Data:    p,
	}
}
