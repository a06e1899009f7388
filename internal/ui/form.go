package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/preview"
	"github.com/desertthunder/reel/internal/services"
)

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "│ "
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// fields is an ordered set of text inputs with one focused at a time.
type fields struct {
	inputs []textinput.Model
	focus  int
}

func newFields(inputs ...textinput.Model) fields {
	f := fields{inputs: inputs}
	f.inputs[0].Focus()
	return f
}

func (f *fields) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *fields) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *fields) value(i int) string {
	return f.inputs[i].Value()
}

func (f *fields) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fields) view() string {
	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}

const (
	fieldTitle = iota
	fieldYear
	fieldPoster
)

// movieForm is the title/year/poster form shared by the create and edit screens.
type movieForm struct {
	fields
	scope      *preview.Scope
	posterPath string
	err        string
}

func newMovieForm(scope *preview.Scope) *movieForm {
	return &movieForm{
		fields: newFields(newInput("Title"), newInput("Publishing year"), newInput("Poster file (enter to preview)")),
		scope:  scope,
	}
}

func (f *movieForm) fill(m *models.Movie) {
	f.inputs[fieldTitle].SetValue(m.Title)
	f.inputs[fieldYear].SetValue(fmt.Sprint(m.PublishingYear))
}

// selectPoster previews the path typed in the poster field, replacing any previous preview.
func (f *movieForm) selectPoster() {
	path := strings.TrimSpace(f.value(fieldPoster))
	f.posterPath = ""

	if _, err := f.scope.Select(path); err != nil {
		f.err = services.Describe(err, preview.MsgNotAnImage)
		return
	}
	f.posterPath = path
	f.err = ""
}

// parse validates title and year, then selects a poster typed but not yet previewed.
func (f *movieForm) parse() (models.MovieInput, bool) {
	in, err := models.ParseMovieForm(f.value(fieldTitle), f.value(fieldYear))
	if err != nil {
		f.err = services.Describe(err, err.Error())
		return models.MovieInput{}, false
	}

	if typed := strings.TrimSpace(f.value(fieldPoster)); typed != f.posterPath {
		f.selectPoster()
		if f.err != "" {
			return models.MovieInput{}, false
		}
	}
	f.err = ""
	return in, true
}

// handleKey moves focus, previews the poster on enter in the poster field, or edits the focused
// field.
func (f *movieForm) handleKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.next):
		f.move(1)
	case key.Matches(msg, keys.prev):
		f.move(-1)
	case key.Matches(msg, keys.enter):
		if f.focus == fieldPoster {
			f.selectPoster()
		} else {
			f.move(1)
		}
	default:
		return f.update(msg)
	}
	return nil
}

func (f *movieForm) previewView() string {
	p := f.scope.Current()
	if p == nil {
		return styles.muted.Render("No poster selected")
	}
	if p.Owned {
		return fmt.Sprintf("Poster preview %dx%d\n%s", p.Width, p.Height, styles.muted.Render(p.URL))
	}
	return fmt.Sprintf("Current poster\n%s", styles.muted.Render(p.URL))
}

func (f *movieForm) view(heading, button string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(heading))
	b.WriteString("\n")
	b.WriteString(f.fields.view())
	b.WriteString("\n")
	b.WriteString(styles.tile.Render(f.previewView()))
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(styles.err.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.button.Render(button))
	return b.String()
}

func openPreview(e env, scope *preview.Scope) string {
	p := scope.Current()
	if p == nil || e.OpenURL == nil {
		return ""
	}
	if err := e.OpenURL(p.URL); err != nil {
		e.Logger.Warn("failed to open poster", "url", p.URL, "error", err)
		return err.Error()
	}
	return ""
}
