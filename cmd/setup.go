package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reel/internal/shared"
)

// Setup writes the config template when none exists, then creates the session database and runs
// migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
			r.config.SetBaseURL(cmd.String("base-url"))
		}
	}

	r.logger.Info("initializing database", "path", r.config.Storage.Path)
	if err := r.open(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	applied, err := shared.AppliedVersions(r.db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Storage.Path)
	r.writePlain("✓ Database ready at %s (%d migrations applied)\n", r.config.Storage.Path, len(applied))
	r.writePlain("API: %s\n", r.config.API.BaseURL)
	return nil
}
