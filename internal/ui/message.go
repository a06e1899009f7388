package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all asynchronous results in the TUI (Elm-style message union).
//
// gen is the generation of the screen that issued the request; the router drops messages whose
// generation no longer matches the displayed screen.
type Msg struct {
	kind MsgKind
	gen  int
	data any
}

var (
	_ tea.Msg = Msg{}
	_ tea.Msg = navigateMsg{}
)

const (
	MsgRegistered MsgKind = iota
	MsgPageLoaded
	MsgMovieLoaded
	MsgSaved
	MsgDeleted
	MsgProgressUpdate
)

type registeredData struct {
	result *models.AuthResult
	err    error
}

type pageLoadedData struct {
	requested int
	page      *models.MoviePage
	err       error
}

type movieLoadedData struct {
	movie *models.Movie
	err   error
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(gen int, res *models.AuthResult, err error) Msg {
	return Msg{kind: MsgRegistered, gen: gen, data: registeredData{res, err}}
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(gen, requested int, page *models.MoviePage, err error) Msg {
	return Msg{kind: MsgPageLoaded, gen: gen, data: pageLoadedData{requested, page, err}}
}

// movieLoadedMsg is the constructor for [MsgMovieLoaded]
func movieLoadedMsg(gen int, movie *models.Movie, err error) Msg {
	return Msg{kind: MsgMovieLoaded, gen: gen, data: movieLoadedData{movie, err}}
}

// savedMsg is the constructor for [MsgSaved]
func savedMsg(gen int, res tasks.SaveResult) Msg {
	return Msg{kind: MsgSaved, gen: gen, data: res}
}

// deletedMsg is the constructor for [MsgDeleted]
func deletedMsg(gen int, err error) Msg {
	return Msg{kind: MsgDeleted, gen: gen, data: err}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(gen int, update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, gen: gen, data: update}
}

// navigateMsg asks the router to switch screens. flash is shown once on the destination.
type navigateMsg struct {
	route Route
	id    string
	flash string
}

func navigate(route Route, id, flash string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route, id: id, flash: flash}
	}
}

// waitForProgress relays one update from ch, or nothing once ch is closed.
func waitForProgress(gen int, ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(gen, update)
	}
}
