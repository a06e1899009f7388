package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

// AuthRegister creates an account and stores the returned session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	creds, err := models.ValidateRegistration(cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	if err := r.open(); err != nil {
		return err
	}

	r.logger.Info("registering", "email", creds.Email)

	res, err := r.movies.Register(ctx, creds)
	if err != nil {
		return failure(err, services.FallbackSignUp)
	}

	if err := r.session.Save(*res); err != nil {
		return err
	}

	r.logger.Info("signed up", "email", creds.Email)
	return r.writePlain("✓ Signed up as %s\n", creds.Email)
}

// AuthImport stores a token obtained outside this client.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.String("token"))
	if token == "" {
		return fmt.Errorf("%w: --token", shared.ErrMissingArgument)
	}

	var user json.RawMessage
	if raw := strings.TrimSpace(cmd.String("user")); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("%w: --user is not valid JSON", shared.ErrInvalidInput)
		}
		user = json.RawMessage(raw)
	}

	if err := r.open(); err != nil {
		return err
	}
	if err := r.session.Save(models.AuthResult{AccessToken: token, User: user}); err != nil {
		return err
	}

	r.logger.Info("token imported")
	return r.writePlain("✓ Session stored\n")
}

// AuthStatus prints whether a session exists and the stored profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	authenticated := r.session.Authenticated()
	profile, err := r.session.Profile()
	if err != nil {
		r.logger.Warn("failed to read stored profile", "error", err)
	}

	var since *time.Time
	if authenticated {
		if ts, ok, err := r.session.SignedInAt(); err != nil {
			r.logger.Warn("failed to read sign-in time", "error", err)
		} else if ok {
			since = &ts
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Authenticated bool         `json:"authenticated"`
			BaseURL       string       `json:"baseUrl"`
			SignedInAt    *time.Time   `json:"signedInAt,omitempty"`
			User          *models.User `json:"user,omitempty"`
		}{authenticated, r.config.API.BaseURL, since, profile}, true)
	}

	r.writePlain("API: %s\n", r.config.API.BaseURL)
	if !authenticated {
		return r.writePlain("Session: ✗ Not signed in\n")
	}

	if since != nil {
		r.writePlain("Session: ✓ Signed in since %s\n", since.Local().Format(time.DateTime))
	} else {
		r.writePlain("Session: ✓ Signed in\n")
	}
	if profile != nil && profile.Email != "" {
		r.writePlain("User: %s\n", profile.Email)
	}
	return nil
}

// AuthLogout removes both session entries. It never calls the API.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}
	if err := r.session.Clear(); err != nil {
		return err
	}

	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}
