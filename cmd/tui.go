package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.open(); err != nil {
		return err
	}

	app := ui.NewApp(ui.Deps{
		Ctx:        ctx,
		Catalog:    r.movies,
		Session:    r.session,
		Saver:      r.saga,
		NewPreview: r.newScope,
		OpenURL:    r.openURL,
		PageSize:   r.config.API.PageSize,
		Logger:     shared.WithLogger(r.logger, "component", "tui"),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
