package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
)

// Catalog is the subset of the movie API used by tasks.
type Catalog interface {
	Movies(ctx context.Context, page, limit int) (*models.MoviePage, error)
	CreateMovie(ctx context.Context, in models.MovieInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, id string, in models.MovieInput) error
	UploadPoster(ctx context.Context, id, path string) error
}

// Operation identifies which save a [SaveResult] came from.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
)

// Outcome is the result of a two-stage save.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSucceeded
	OutcomeAttachmentFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeAttachmentFailed:
		return "attachment_failed"
	default:
		return "failed"
	}
}

// SaveResult carries the outcome, the saved movie (nil on failure) and the error of the failing
// stage.
type SaveResult struct {
	Op      Operation
	Outcome Outcome
	Movie   *models.Movie
	Err     error
}

// Saved reports whether the record itself was persisted. Callers navigate away when true.
func (r SaveResult) Saved() bool {
	return r.Outcome != OutcomeFailed
}

// Message returns the text shown to the user, or "" on full success.
func (r SaveResult) Message() string {
	switch r.Outcome {
	case OutcomeFailed:
		if r.Op == OpUpdate {
			return services.Describe(r.Err, services.FallbackUpdateMovie)
		}
		return services.Describe(r.Err, services.FallbackCreateMovie)
	case OutcomeAttachmentFailed:
		fallback := services.FallbackCreatedPoster
		if r.Op == OpUpdate {
			fallback = services.FallbackUpdatedPoster
		}
		return attachmentMessage(r.Err, fallback)
	default:
		return ""
	}
}

// attachmentMessage prefers the server's message and never reports a saved record as a network
// failure.
func attachmentMessage(err error, fallback string) string {
	if msg := services.Describe(err, fallback); msg != services.NetworkErrorMessage {
		return msg
	}
	return fallback
}

// Saga runs create-then-upload and update-then-upload saves.
type Saga struct {
	catalog Catalog
	logger  *log.Logger
}

// NewSaga creates a [Saga]. A nil logger discards output.
func NewSaga(catalog Catalog, logger *log.Logger) *Saga {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Saga{catalog: catalog, logger: logger}
}

// Create saves a new movie, then uploads posterPath against the returned id when posterPath is
// non-empty.
func (s *Saga) Create(ctx context.Context, in models.MovieInput, posterPath string, progress chan<- ProgressUpdate) SaveResult {
	total := stages(posterPath)
	sendProgress(progress, saveRecordUpdate(1, total, OpCreate, in.Title))

	m, err := s.catalog.CreateMovie(ctx, in)
	if err != nil {
		s.logger.Warn("create failed", "title", in.Title, "error", err)
		return SaveResult{Op: OpCreate, Outcome: OutcomeFailed, Err: err}
	}
	s.logger.Info("movie created", "id", m.ID, "title", m.Title)

	return s.attach(ctx, OpCreate, m, posterPath, progress)
}

// Update saves id's fields, then uploads posterPath against the same id when posterPath is
// non-empty.
func (s *Saga) Update(ctx context.Context, id string, in models.MovieInput, posterPath string, progress chan<- ProgressUpdate) SaveResult {
	total := stages(posterPath)
	sendProgress(progress, saveRecordUpdate(1, total, OpUpdate, in.Title))

	if err := s.catalog.UpdateMovie(ctx, id, in); err != nil {
		s.logger.Warn("update failed", "id", id, "error", err)
		return SaveResult{Op: OpUpdate, Outcome: OutcomeFailed, Err: err}
	}
	s.logger.Info("movie updated", "id", id)

	m := &models.Movie{ID: id, Title: in.Title, PublishingYear: in.PublishingYear}
	return s.attach(ctx, OpUpdate, m, posterPath, progress)
}

func (s *Saga) attach(ctx context.Context, op Operation, m *models.Movie, posterPath string, progress chan<- ProgressUpdate) SaveResult {
	if posterPath == "" {
		return SaveResult{Op: op, Outcome: OutcomeSucceeded, Movie: m}
	}

	sendProgress(progress, uploadPosterUpdate(2, 2, m))

	if err := s.catalog.UploadPoster(ctx, m.ID, posterPath); err != nil {
		s.logger.Warn("poster upload failed", "id", m.ID, "error", err)
		return SaveResult{Op: op, Outcome: OutcomeAttachmentFailed, Movie: m, Err: fmt.Errorf("poster upload: %w", err)}
	}
	s.logger.Info("poster uploaded", "id", m.ID)

	return SaveResult{Op: op, Outcome: OutcomeSucceeded, Movie: m}
}

func stages(posterPath string) int {
	if posterPath == "" {
		return 1
	}
	return 2
}
