package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/tasks"
)

// MsgConfirmDelete is the delete confirmation prompt.
const MsgConfirmDelete = "Are you sure you want to delete this movie?"

// editScreen loads one movie and allows updating or deleting it.
//
// saving gates both update and delete.
type editScreen struct {
	env
	id         string
	movie      *models.Movie
	form       *movieForm
	loading    bool
	saving     bool
	confirming bool
	loadErr    string
	status     string
	progress   <-chan tasks.ProgressUpdate
}

func newEditScreen(e env, id string) *editScreen {
	return &editScreen{env: e, id: id, form: newMovieForm(e.NewPreview())}
}

// Init fetches the movie without credentials.
func (s *editScreen) Init() tea.Cmd {
	s.loading = true

	gen, catalog, ctx, id := s.gen, s.Catalog, s.ctx(), s.id
	return func() tea.Msg {
		m, err := catalog.Movie(ctx, id)
		return movieLoadedMsg(gen, m, err)
	}
}

// Close releases the poster preview.
func (s *editScreen) Close() {
	s.form.scope.Close()
}

func (s *editScreen) HelpKeys() []key.Binding {
	switch {
	case s.confirming:
		return []key.Binding{s.keys.yes, s.keys.no}
	case s.movie == nil:
		return []key.Binding{s.keys.cancel, s.keys.forceQ}
	default:
		return []key.Binding{s.keys.next, s.keys.submit, s.keys.remove, s.keys.open, s.keys.cancel, s.keys.forceQ}
	}
}

func (s *editScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.confirming {
			return s.confirm(msg)
		}
		switch {
		case key.Matches(msg, s.keys.cancel):
			return navigate(RouteList, "", "")
		case s.movie == nil:
			return nil
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case key.Matches(msg, s.keys.remove):
			if !s.saving {
				s.confirming = true
			}
			return nil
		case msg.String() == "ctrl+o":
			if err := openPreview(s.env, s.form.scope); err != "" {
				s.form.err = err
			}
			return nil
		}
		return s.form.handleKey(msg, s.keys)

	case Msg:
		switch msg.kind {
		case MsgMovieLoaded:
			s.loaded(msg.data.(movieLoadedData))
		case MsgProgressUpdate:
			s.status = msg.data.(tasks.ProgressUpdate).Message
			return waitForProgress(s.gen, s.progress)
		case MsgSaved:
			return s.saved(msg.data.(tasks.SaveResult))
		case MsgDeleted:
			return s.deleted(msg.data)
		}
	}
	return nil
}

func (s *editScreen) loaded(d movieLoadedData) {
	s.loading = false
	if d.err != nil {
		s.loadErr = services.Describe(d.err, services.FallbackLoadMovie)
		s.Logger.Warn("failed to load movie", "id", s.id, "error", d.err)
		return
	}

	s.movie = d.movie
	s.form.fill(d.movie)
	s.form.scope.ShowRemote(models.PosterURL(s.Catalog.BaseURL(), d.movie.PosterPath))
}

// confirm handles the y/n prompt. Declining sends nothing.
func (s *editScreen) confirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.yes):
		s.confirming = false
		return s.remove()
	case key.Matches(msg, s.keys.no):
		s.confirming = false
	}
	return nil
}

func (s *editScreen) remove() tea.Cmd {
	if s.saving {
		return nil
	}
	s.saving = true
	s.form.err = ""

	gen, catalog, ctx, id := s.gen, s.Catalog, s.ctx(), s.id
	return func() tea.Msg {
		return deletedMsg(gen, catalog.DeleteMovie(ctx, id))
	}
}

func (s *editScreen) deleted(data any) tea.Cmd {
	s.saving = false
	if err, _ := data.(error); err != nil {
		s.form.err = services.Describe(err, services.FallbackDeleteMovie)
		s.Logger.Warn("failed to delete movie", "id", s.id, "error", err)
		return nil
	}
	s.Logger.Info("movie deleted", "id", s.id)
	return navigate(RouteList, "", "")
}

func (s *editScreen) submit() tea.Cmd {
	if s.saving {
		return nil
	}

	in, ok := s.form.parse()
	if !ok {
		return nil
	}

	s.saving = true
	s.status = ""

	progress := make(chan tasks.ProgressUpdate, 4)
	s.progress = progress
	gen, saver, ctx, id, poster := s.gen, s.Saver, s.ctx(), s.id, s.form.posterPath

	run := func() tea.Msg {
		res := saver.Update(ctx, id, in, poster, progress)
		close(progress)
		return savedMsg(gen, res)
	}
	return tea.Batch(run, waitForProgress(gen, progress))
}

func (s *editScreen) saved(res tasks.SaveResult) tea.Cmd {
	s.saving = false
	if !res.Saved() {
		s.form.err = res.Message()
		return nil
	}
	return navigate(RouteList, "", res.Message())
}

func (s *editScreen) View() string {
	switch {
	case s.loading:
		return s.spinner.View() + " Loading movie..."
	case s.movie == nil:
		msg := s.loadErr
		if msg == "" {
			msg = services.FallbackMovieNotFound
		}
		return styles.err.Render(msg)
	}

	button := "Update"
	if s.saving {
		button = "Updating..."
	}

	var b strings.Builder
	b.WriteString(s.form.view("Edit movie", button))
	b.WriteString("   ")
	b.WriteString(styles.err.Render("Delete (ctrl+d)"))

	if s.confirming {
		b.WriteString("\n\n")
		b.WriteString(styles.warn.Render(MsgConfirmDelete + " (y/n)"))
	}
	if s.saving && s.status != "" {
		b.WriteString("\n")
		b.WriteString(s.spinner.View() + " " + s.status)
	}
	return b.String()
}
