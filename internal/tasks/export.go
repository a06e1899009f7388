package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/reel/internal/formatter"
	"github.com/desertthunder/reel/internal/models"
)

// ExportOpts configures a catalog export.
type ExportOpts struct {
	PageSize  int     // Movies per request (default: 8)
	RateLimit float64 // Requests per second (default: 5)
	Workers   int     // Pages fetched concurrently after the first (default: 1)
	BaseURL   string  // Used to resolve poster paths in the output
}

// Exporter collects the whole catalog page by page.
type Exporter struct {
	catalog Catalog
	logger  *log.Logger
	now     func() time.Time
}

// NewExporter creates an [Exporter]. A nil logger discards output.
func NewExporter(catalog Catalog, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Exporter{catalog: catalog, logger: logger, now: time.Now}
}

// Run fetches page 1, then every remaining page reported by the first response's total on a
// worker pool.
//
// All requests share one [rate.Limiter]. The first failed page cancels the pages not yet requested
// and the run returns its error without retrying. Movies keep page order.
func (e *Exporter) Run(ctx context.Context, opts ExportOpts, progress chan<- ProgressUpdate) (*formatter.Catalog, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	fetch := func(ctx context.Context, page, totalPages int) (*models.MoviePage, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("export canceled: %w", err)
		}

		sendProgress(progress, fetchPageUpdate(page, totalPages))

		p, err := e.catalog.Movies(ctx, page, opts.PageSize)
		if err != nil {
			e.logger.Error("export page failed", "page", page, "error", err)
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		e.logger.Debug("fetched page", "page", page, "count", len(p.Data))
		return p, nil
	}

	first, err := fetch(ctx, 1, 1)
	if err != nil {
		return nil, err
	}

	totalPages := models.TotalPages(first.Total, opts.PageSize)
	sendProgress(progress, fetchedPageUpdate(1, totalPages, first))

	pages := make([]*models.MoviePage, totalPages)
	pages[0] = first

	if totalPages > 1 {
		if err := e.fetchRest(ctx, opts.Workers, pages, func(ctx context.Context, page int) (*models.MoviePage, error) {
			p, err := fetch(ctx, page, totalPages)
			if err == nil {
				sendProgress(progress, fetchedPageUpdate(page, totalPages, p))
			}
			return p, err
		}); err != nil {
			return nil, err
		}
	}

	catalog := &formatter.Catalog{BaseURL: opts.BaseURL, ExportedAt: e.now().UTC(), Total: first.Total, Movies: []models.Movie{}}
	for _, p := range pages {
		catalog.Movies = append(catalog.Movies, p.Data...)
	}
	return catalog, nil
}

// fetchRest fills pages[1:] using a pool of workers. The first failure cancels the fetches that
// have not started and is the error returned.
func (e *Exporter) fetchRest(ctx context.Context, workers int, pages []*models.MoviePage, fetch func(context.Context, int) (*models.MoviePage, error)) error {
	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var once sync.Once
	var failed error

	group := pool.NewGroup()
	for i := 1; i < len(pages); i++ {
		group.Submit(func() {
			p, err := fetch(fetchCtx, i+1)
			if err != nil {
				once.Do(func() {
					failed = err
					cancel()
				})
				return
			}
			pages[i] = p
		})
	}

	if err := group.Wait(); err != nil && failed == nil {
		return fmt.Errorf("export canceled: %w", err)
	}
	return failed
}
