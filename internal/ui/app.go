package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/preview"
	"github.com/desertthunder/reel/internal/tasks"
)

// Route identifies a screen.
type Route int

const (
	RouteRegister Route = iota
	RouteList
	RouteCreate
	RouteEdit
)

func (r Route) String() string {
	switch r {
	case RouteRegister:
		return "register"
	case RouteList:
		return "list"
	case RouteCreate:
		return "create"
	case RouteEdit:
		return "edit"
	default:
		return ""
	}
}

// Catalog is the movie API as used by the screens.
type Catalog interface {
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Movies(ctx context.Context, page, limit int) (*models.MoviePage, error)
	Movie(ctx context.Context, id string) (*models.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
	BaseURL() string
}

// Session is the injected session store.
type Session interface {
	Save(res models.AuthResult) error
	Authenticated() bool
	Clear() error
}

// Saver runs the two-stage create/update saves.
type Saver interface {
	Create(ctx context.Context, in models.MovieInput, posterPath string, progress chan<- tasks.ProgressUpdate) tasks.SaveResult
	Update(ctx context.Context, id string, in models.MovieInput, posterPath string, progress chan<- tasks.ProgressUpdate) tasks.SaveResult
}

// Deps holds everything the screens need.
type Deps struct {
	Ctx        context.Context
	Catalog    Catalog
	Session    Session
	Saver      Saver
	NewPreview func() *preview.Scope // one scope per form screen
	OpenURL    func(string) error
	PageSize   int
	Logger     *log.Logger
}

// screen is one route's state. Update mutates the screen in place.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	HelpKeys() []key.Binding
	Close()
}

// env is what a screen receives from the router.
type env struct {
	Deps
	gen     int
	keys    keyMap
	spinner *spinner.Model
}

func (e env) ctx() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

// App is the root [tea.Model]; it owns the current screen and the session guard.
type App struct {
	deps     Deps
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	screen   screen
	route    Route
	gen      int
	width    int
	height   int
	quitting bool
}

// NewApp creates the root model. The first screen is the movie list, subject to the guard.
func NewApp(deps Deps) *App {
	if deps.PageSize <= 0 {
		deps.PageSize = 8
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.NewPreview == nil {
		deps.NewPreview = func() *preview.Scope { return preview.NewScope("", 0, deps.Logger) }
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	return &App{deps: deps, keys: newKeyMap(), help: help.New(), spinner: sp}
}

// Route returns the displayed route.
func (a *App) Route() Route {
	return a.route
}

// Close releases the current screen's resources. Called on program exit.
func (a *App) Close() {
	if a.screen != nil {
		a.screen.Close()
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.navigate(navigateMsg{route: RouteList}), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.forceQ) {
			return a.quit()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case navigateMsg:
		return a, a.navigate(msg)

	case quitMsg:
		return a.quit()

	case Msg:
		if msg.gen != a.gen {
			a.deps.Logger.Debug("dropping stale message", "kind", msg.kind, "gen", msg.gen, "current", a.gen)
			return a, nil
		}
	}

	if a.screen == nil {
		return a, nil
	}
	return a, a.screen.Update(msg)
}

func (a *App) View() string {
	if a.quitting || a.screen == nil {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s", a.screen.View(), a.help.ShortHelpView(a.screen.HelpKeys()))
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.quitting = true
	a.Close()
	return a, tea.Quit
}

// navigate closes the current screen, applies the session guard and activates the target.
func (a *App) navigate(msg navigateMsg) tea.Cmd {
	if a.screen != nil {
		a.screen.Close()
	}
	a.gen++

	route := msg.route
	if route != RouteRegister && !a.deps.Session.Authenticated() {
		a.deps.Logger.Info("no session, redirecting", "from", route)
		route, msg.flash = RouteRegister, ""
	}

	e := env{Deps: a.deps, gen: a.gen, keys: a.keys, spinner: &a.spinner}

	switch route {
	case RouteList:
		a.screen = newListScreen(e, msg.flash)
	case RouteCreate:
		a.screen = newCreateScreen(e)
	case RouteEdit:
		a.screen = newEditScreen(e, msg.id)
	default:
		a.screen = newRegisterScreen(e)
	}
	a.route = route

	a.deps.Logger.Debug("navigated", "route", route, "gen", a.gen)
	return a.screen.Init()
}

type quitMsg struct{}

func quit() tea.Msg { return quitMsg{} }
