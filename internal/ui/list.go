package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
)

const (
	tileWidth   = 24
	gridColumns = 4
)

// listScreen shows one page of movies as a grid of tiles.
type listScreen struct {
	env
	movies   []models.Movie
	total    int
	page     int
	selected int
	loading  bool
	err      string
	flash    string
}

func newListScreen(e env, flash string) *listScreen {
	return &listScreen{env: e, page: 1, flash: flash}
}

func (s *listScreen) Init() tea.Cmd {
	return s.load(s.page)
}

func (s *listScreen) Close() {}

func (s *listScreen) totalPages() int {
	return models.TotalPages(s.total, s.PageSize)
}

func (s *listScreen) HelpKeys() []key.Binding {
	keys := []key.Binding{s.keys.create}
	if len(s.movies) > 0 {
		keys = append(keys, s.keys.down, s.keys.enter, s.keys.open)
	}
	if s.totalPages() > 1 {
		keys = append(keys, s.keys.prevPage, s.keys.nextPage)
	}
	return append(keys, s.keys.reload, s.keys.logout, s.keys.quit)
}

// load requests page n. The displayed page changes only when the response arrives.
func (s *listScreen) load(n int) tea.Cmd {
	s.loading = true
	s.err = ""

	gen, catalog, ctx, limit := s.gen, s.Catalog, s.ctx(), s.PageSize
	return func() tea.Msg {
		page, err := catalog.Movies(ctx, n, limit)
		return pageLoadedMsg(gen, n, page, err)
	}
}

// goToPage loads target when it is within [1, totalPages]; anything else is a no-op.
func (s *listScreen) goToPage(target int) tea.Cmd {
	if s.loading {
		return nil
	}
	if _, ok := models.ClampPage(target, s.totalPages()); !ok {
		return nil
	}
	s.flash = ""
	return s.load(target)
}

func (s *listScreen) logout() tea.Cmd {
	if err := s.Session.Clear(); err != nil {
		s.Logger.Error("failed to clear session", "error", err)
	}
	s.Logger.Info("logged out")
	return navigate(RouteRegister, "", "")
}

func (s *listScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.quit):
			return quit
		case key.Matches(msg, s.keys.logout):
			return s.logout()
		case key.Matches(msg, s.keys.create):
			return navigate(RouteCreate, "", "")
		case key.Matches(msg, s.keys.prevPage):
			return s.goToPage(s.page - 1)
		case key.Matches(msg, s.keys.nextPage):
			return s.goToPage(s.page + 1)
		case key.Matches(msg, s.keys.reload):
			if !s.loading {
				return s.load(s.page)
			}
		case key.Matches(msg, s.keys.down):
			if len(s.movies) > 0 {
				s.selected = (s.selected + 1) % len(s.movies)
			}
		case key.Matches(msg, s.keys.up):
			if len(s.movies) > 0 {
				s.selected = (s.selected - 1 + len(s.movies)) % len(s.movies)
			}
		case key.Matches(msg, s.keys.enter):
			if m, ok := s.current(); ok {
				return navigate(RouteEdit, m.ID, "")
			}
		case key.Matches(msg, s.keys.open):
			if m, ok := s.current(); ok && m.HasPoster() && s.OpenURL != nil {
				if err := s.OpenURL(models.PosterURL(s.Catalog.BaseURL(), m.PosterPath)); err != nil {
					s.err = err.Error()
				}
			}
		}

	case Msg:
		if msg.kind == MsgPageLoaded {
			s.loaded(msg.data.(pageLoadedData))
		}
	}
	return nil
}

func (s *listScreen) current() (models.Movie, bool) {
	if s.selected < 0 || s.selected >= len(s.movies) {
		return models.Movie{}, false
	}
	return s.movies[s.selected], true
}

// loaded applies a page response. On failure the previous movies stay on screen.
func (s *listScreen) loaded(d pageLoadedData) {
	s.loading = false
	if d.err != nil {
		s.err = services.Describe(d.err, services.FallbackLoadMovies)
		s.Logger.Warn("failed to load movies", "page", d.requested, "error", d.err)
		return
	}

	s.movies = d.page.Data
	s.total = d.page.Total
	s.page = d.page.Page
	if s.page < 1 {
		s.page = d.requested
	}
	if s.selected >= len(s.movies) {
		s.selected = 0
	}
}

func (s *listScreen) View() string {
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.title.Render("My movies"),
		"   ",
		styles.muted.Render("Logout (L)"),
	)
	b.WriteString(header)
	b.WriteString("\n")

	if s.flash != "" {
		b.WriteString(styles.warn.Render(s.flash))
		b.WriteString("\n")
	}
	if s.err != "" {
		b.WriteString(styles.err.Render(s.err))
		b.WriteString("\n")
	}

	switch {
	case s.loading:
		b.WriteString(s.spinner.View() + " Loading movies...")
	case s.total == 0:
		b.WriteString("\n")
		b.WriteString(styles.title.Render("Your movie list is empty"))
		b.WriteString("\n")
		b.WriteString(styles.button.Render("Add a new movie (n)"))
	default:
		b.WriteString(styles.button.Render("Add a new movie (n)"))
		b.WriteString("\n\n")
		b.WriteString(s.grid())
		if pages := s.totalPages(); pages > 1 {
			b.WriteString("\n\n")
			b.WriteString(fmt.Sprintf("← Prev   Page %d of %d   Next →", s.page, pages))
		}
	}

	return b.String()
}

func (s *listScreen) grid() string {
	base := s.Catalog.BaseURL()
	var rows []string
	var row []string

	for i, m := range s.movies {
		poster := styles.muted.Render("No poster")
		if url := models.PosterURL(base, m.PosterPath); url != "" {
			poster = styles.muted.Render(truncate(url, tileWidth-2))
		}

		body := fmt.Sprintf("%s\n%s\n%d", poster, truncate(m.Title, tileWidth-2), m.PublishingYear)

		style := styles.tile
		if i == s.selected {
			style = styles.focused
		}
		row = append(row, style.Render(body))

		if len(row) == gridColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
