package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
)

// registerScreen collects email and password and stores the returned session.
type registerScreen struct {
	env
	fields
	loading bool
	err     string
}

func newRegisterScreen(e env) *registerScreen {
	password := newInput("Password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &registerScreen{env: e, fields: newFields(newInput("Email"), password)}
}

func (s *registerScreen) Init() tea.Cmd { return nil }

func (s *registerScreen) Close() {}

func (s *registerScreen) HelpKeys() []key.Binding {
	return []key.Binding{s.keys.next, s.keys.enter, s.keys.forceQ}
}

func (s *registerScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.submit):
			return s.submit()
		case key.Matches(msg, s.keys.enter):
			if s.last() {
				return s.submit()
			}
			s.move(1)
			return nil
		case key.Matches(msg, s.keys.next):
			s.move(1)
			return nil
		case key.Matches(msg, s.keys.prev):
			s.move(-1)
			return nil
		}
		return s.update(msg)

	case Msg:
		if msg.kind == MsgRegistered {
			return s.registered(msg.data.(registeredData))
		}
	}
	return nil
}

func (s *registerScreen) submit() tea.Cmd {
	if s.loading {
		return nil
	}

	creds, err := models.ValidateRegistration(s.value(0), s.value(1))
	if err != nil {
		s.err = err.Error()
		return nil
	}

	s.err = ""
	s.loading = true

	gen, catalog, ctx := s.gen, s.Catalog, s.ctx()
	return func() tea.Msg {
		res, err := catalog.Register(ctx, creds)
		return registeredMsg(gen, res, err)
	}
}

func (s *registerScreen) registered(d registeredData) tea.Cmd {
	s.loading = false
	if d.err != nil {
		s.err = services.Describe(d.err, services.FallbackSignUp)
		s.Logger.Warn("sign up failed", "error", d.err)
		return nil
	}

	if err := s.Session.Save(*d.result); err != nil {
		s.err = err.Error()
		return nil
	}

	s.Logger.Info("signed up", "email", strings.TrimSpace(s.value(0)))
	return navigate(RouteList, "", "")
}

func (s *registerScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Sign up"))
	b.WriteString("\n")
	b.WriteString(s.view())
	if s.err != "" {
		b.WriteString(styles.err.Render(s.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if s.loading {
		b.WriteString(s.spinner.View() + " Signing up...")
	} else {
		b.WriteString(styles.button.Render("Sign up"))
	}
	return b.String()
}
