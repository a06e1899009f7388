package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/reel/internal/preview"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/session"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage and API clients are opened lazily by [Runner.open] so that commands like setup work
// before a database exists.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	openURL    func(string) error

	db      *sql.DB
	ownsDB  bool
	session *session.Store
	movies  *services.MovieService
	api     *services.APIService
	saga    *tasks.Saga
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // already migrated; the runner does not close it
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	OpenURL    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		openURL:    opts.OpenURL,
		db:         opts.DB,
	}
}

// command builds the root command.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:    "reel",
		Usage:   "Browse and manage your movie catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("REEL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Movie API base URL (overrides api.base_url)",
				Sources: cli.EnvVars("REEL_API_BASE_URL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.configure,
		After:    r.close,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file and applies the global flags.
//
// A missing file keeps the current config so that setup can create it.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path != "" {
		r.configPath = path
	}

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if cmd.IsSet("config") {
		r.logger.Warn("config file not found, using defaults", "path", r.configPath)
	}

	r.config.SetBaseURL(cmd.String("base-url"))

	level := r.config.Log.Level
	if cmd.Bool("debug") {
		level = "debug"
	}
	shared.SetLogLevel(r.logger, level)

	r.logger.Debug("configured", "config", r.configPath, "base_url", r.config.API.BaseURL)
	return ctx, nil
}

// open prepares session storage and the API clients once.
func (r *Runner) open() error {
	if r.session != nil {
		return nil
	}

	if r.db == nil {
		db, err := shared.OpenStorage(r.config.Storage)
		if err != nil {
			return err
		}
		r.db, r.ownsDB = db, true
	}

	r.session = session.NewStore(repositories.NewLocalStorageRepository(r.db))
	r.movies = services.NewMovieService(r.config.API.BaseURL, r.httpClient, r.session)
	r.api = services.NewAPIService(r.config.API.BaseURL, r.httpClient, r.session)
	r.saga = tasks.NewSaga(r.movies, r.logger)
	return nil
}

// guard opens storage and requires a stored session.
func (r *Runner) guard() error {
	if err := r.open(); err != nil {
		return err
	}
	if err := r.session.Guard(); err != nil {
		return fmt.Errorf("%w: run `reel auth register` or `reel auth import` first", err)
	}
	return nil
}

func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.ownsDB, r.session = nil, false, nil
	return err
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.movies != nil {
		r.saga = tasks.NewSaga(r.movies, logger)
	}
}

func (r *Runner) newScope() *preview.Scope {
	return preview.NewScope(r.config.Preview.Dir, r.config.Preview.MaxSize, r.logger)
}

// relay hands progress updates to show until the returned stop function is called.
func (r *Runner) relay(progress chan tasks.ProgressUpdate, show func(tasks.ProgressUpdate)) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			show(update)
		}
	}()

	return func() {
		close(progress)
		<-done
	}
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	r.writePlain("… %s\n", update.Message)
}

// logProgress keeps stdout clean for exports written there.
func (r *Runner) logProgress(update tasks.ProgressUpdate) {
	r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s (y/n) ", question); err != nil {
		return false, err
	}

	answer, err := r.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
