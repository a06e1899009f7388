package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reel/internal/tasks"
)

// createScreen is the new movie form.
type createScreen struct {
	env
	form     *movieForm
	loading  bool
	status   string
	progress <-chan tasks.ProgressUpdate
}

func newCreateScreen(e env) *createScreen {
	return &createScreen{env: e, form: newMovieForm(e.NewPreview())}
}

func (s *createScreen) Init() tea.Cmd { return nil }

// Close releases the poster preview.
func (s *createScreen) Close() {
	s.form.scope.Close()
}

func (s *createScreen) HelpKeys() []key.Binding {
	return []key.Binding{s.keys.next, s.keys.submit, s.keys.open, s.keys.cancel, s.keys.forceQ}
}

func (s *createScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.cancel):
			return navigate(RouteList, "", "")
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case msg.String() == "ctrl+o":
			if err := openPreview(s.env, s.form.scope); err != "" {
				s.form.err = err
			}
			return nil
		}
		return s.form.handleKey(msg, s.keys)

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			s.status = msg.data.(tasks.ProgressUpdate).Message
			return waitForProgress(s.gen, s.progress)
		case MsgSaved:
			return s.saved(msg.data.(tasks.SaveResult))
		}
	}
	return nil
}

func (s *createScreen) submit() tea.Cmd {
	if s.loading {
		return nil
	}

	in, ok := s.form.parse()
	if !ok {
		return nil
	}

	s.loading = true
	s.status = ""

	progress := make(chan tasks.ProgressUpdate, 4)
	s.progress = progress
	gen, saver, ctx, poster := s.gen, s.Saver, s.ctx(), s.form.posterPath

	run := func() tea.Msg {
		res := saver.Create(ctx, in, poster, progress)
		close(progress)
		return savedMsg(gen, res)
	}
	return tea.Batch(run, waitForProgress(gen, progress))
}

// saved navigates to the list unless the record itself failed; a failed upload travels along as
// a warning.
func (s *createScreen) saved(res tasks.SaveResult) tea.Cmd {
	s.loading = false
	if !res.Saved() {
		s.form.err = res.Message()
		return nil
	}
	return navigate(RouteList, "", res.Message())
}

func (s *createScreen) View() string {
	button := "Submit"
	if s.loading {
		button = "Saving..."
	}
	v := s.form.view("Create a new movie", button)
	if s.loading && s.status != "" {
		v += "\n" + s.spinner.View() + " " + s.status
	}
	return v
}
