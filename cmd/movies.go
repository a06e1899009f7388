package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
	"github.com/desertthunder/reel/internal/ui"
)

// failure wraps err with the text a user should see for it.
func failure(err error, fallback string) error {
	return fmt.Errorf("%s (%w)", services.Describe(err, fallback), err)
}

func requireID(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	return id, nil
}

// MoviesList prints one page of the catalog.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	page := int(cmd.Int("page"))
	if page < 1 {
		return fmt.Errorf("%w: --page must be at least 1", shared.ErrInvalidFlag)
	}
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.API.PageSize
	}

	if err := r.guard(); err != nil {
		return err
	}

	r.logger.Debug("listing movies", "page", page, "limit", limit)

	result, err := r.movies.Movies(ctx, page, limit)
	if err != nil {
		return failure(err, services.FallbackLoadMovies)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if result.Total == 0 {
		return r.writePlain("Your movie list is empty\n")
	}

	r.writePlainHeader(fmt.Sprintf("My movies (page %d of %d, %d total)", result.Page, models.TotalPages(result.Total, limit), result.Total))
	for _, m := range result.Data {
		poster := "No poster"
		if m.HasPoster() {
			poster = r.movies.PosterURL(m)
		}
		r.writePlain("%-26s %s (%d)\n%-26s %s\n", m.ID, m.Title, m.PublishingYear, "", poster)
	}
	return nil
}

// MoviesShow prints one movie and optionally opens its poster.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}
	if err := r.guard(); err != nil {
		return err
	}

	m, err := r.movies.Movie(ctx, id)
	if err != nil {
		return failure(err, services.FallbackLoadMovie)
	}

	posterURL := r.movies.PosterURL(*m)

	if cmd.Bool("json") {
		if err := r.writeJSON(m, true); err != nil {
			return err
		}
	} else {
		r.writePlain("ID:     %s\n", m.ID)
		r.writePlain("Title:  %s\n", m.Title)
		r.writePlain("Year:   %d\n", m.PublishingYear)
		if posterURL != "" {
			r.writePlain("Poster: %s\n", posterURL)
		} else {
			r.writePlain("Poster: No poster\n")
		}
	}

	if !cmd.Bool("open") {
		return nil
	}
	if posterURL == "" {
		r.logger.Warn("movie has no poster", "id", m.ID)
		return nil
	}

	r.logger.Info("opening poster", "url", posterURL)
	if err := r.openURL(posterURL); err != nil {
		return fmt.Errorf("failed to open poster: %w", err)
	}
	return nil
}

// MoviesCreate saves a new movie, then uploads its poster.
func (r *Runner) MoviesCreate(ctx context.Context, cmd *cli.Command) error {
	in, err := models.ParseMovieForm(cmd.String("title"), cmd.String("year"))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	if err := r.guard(); err != nil {
		return err
	}

	poster, release, err := r.selectPoster(cmd.String("poster"))
	if err != nil {
		return err
	}
	defer release()

	progress := make(chan tasks.ProgressUpdate, 4)
	stop := r.relay(progress, r.printProgress)
	res := r.saga.Create(ctx, in, poster, progress)
	stop()

	return r.reportSave(res)
}

// MoviesEdit updates a movie. Title and year default to the stored values.
func (r *Runner) MoviesEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}
	if err := r.guard(); err != nil {
		return err
	}

	current, err := r.movies.Movie(ctx, id)
	if err != nil {
		return failure(err, services.FallbackLoadMovie)
	}

	title, year := current.Title, strconv.Itoa(current.PublishingYear)
	if cmd.IsSet("title") {
		title = cmd.String("title")
	}
	if cmd.IsSet("year") {
		year = cmd.String("year")
	}

	in, err := models.ParseMovieForm(title, year)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	poster, release, err := r.selectPoster(cmd.String("poster"))
	if err != nil {
		return err
	}
	defer release()

	progress := make(chan tasks.ProgressUpdate, 4)
	stop := r.relay(progress, r.printProgress)
	res := r.saga.Update(ctx, id, in, poster, progress)
	stop()

	return r.reportSave(res)
}

// selectPoster checks that path decodes as an image. The returned release func deletes the
// thumbnail made while checking.
func (r *Runner) selectPoster(path string) (string, func(), error) {
	path = strings.TrimSpace(path)
	scope := r.newScope()
	release := func() {
		if err := scope.Close(); err != nil {
			r.logger.Warn("failed to release poster preview", "error", err)
		}
	}

	if path == "" {
		return "", release, nil
	}

	p, err := scope.Select(path)
	if err != nil {
		release()
		return "", nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	r.logger.Debug("poster selected", "path", path, "width", p.Width, "height", p.Height)
	return path, release, nil
}

func (r *Runner) reportSave(res tasks.SaveResult) error {
	switch res.Outcome {
	case tasks.OutcomeFailed:
		return fmt.Errorf("%s (%w)", res.Message(), res.Err)
	case tasks.OutcomeAttachmentFailed:
		r.writePlain("⚠ %s\n", res.Message())
	}

	verb := "Created"
	if res.Op == tasks.OpUpdate {
		verb = "Updated"
	}
	return r.writePlain("✓ %s %s (%d) [%s]\n", verb, res.Movie.Title, res.Movie.PublishingYear, res.Movie.ID)
}

// MoviesDelete deletes a movie after confirmation. Declining sends nothing.
func (r *Runner) MoviesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireID(cmd)
	if err != nil {
		return err
	}
	if err := r.guard(); err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		ok, err := r.confirm(ui.MsgConfirmDelete)
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Canceled\n")
		}
	}

	if err := r.movies.DeleteMovie(ctx, id); err != nil {
		return failure(err, services.FallbackDeleteMovie)
	}

	r.logger.Info("movie deleted", "id", id)
	return r.writePlain("✓ Deleted %s\n", id)
}

// MoviesExport walks every page of the catalog and writes it in the requested format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	pageSize := int(cmd.Int("page-size"))
	if pageSize <= 0 {
		pageSize = r.config.API.PageSize
	}
	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = r.config.Export.Workers
	}

	if err := r.guard(); err != nil {
		return err
	}

	output := cmd.String("output")
	r.logger.Info("exporting catalog", "format", format, "output", output)

	progress := make(chan tasks.ProgressUpdate, 16)
	stop := r.relay(progress, r.logProgress)
	catalog, err := tasks.NewExporter(r.movies, r.logger).Run(ctx, tasks.ExportOpts{
		PageSize:  pageSize,
		RateLimit: r.config.Export.RateLimit,
		Workers:   workers,
		BaseURL:   r.config.API.BaseURL,
	}, progress)
	stop()

	if err != nil {
		return failure(err, services.FallbackLoadMovies)
	}

	if output == "" {
		data, err := formatter.Export(catalog, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(catalog, format, output); err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d movies to %s\n", len(catalog.Movies), output)
}
