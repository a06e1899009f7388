package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/reel/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.command().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not signed in", "error", err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
