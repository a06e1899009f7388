package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next     key.Binding
	prev     key.Binding
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	submit   key.Binding
	cancel   key.Binding
	prevPage key.Binding
	nextPage key.Binding
	create   key.Binding
	logout   key.Binding
	reload   key.Binding
	open     key.Binding
	remove   key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
	forceQ   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev field")),
		up:       key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		prevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		nextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		create:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add a new movie")),
		logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		open:     key.NewBinding(key.WithKeys("ctrl+o", "o"), key.WithHelp("o", "open poster")),
		remove:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQ:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.forceQ}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.enter, k.submit, k.cancel},
		{k.up, k.down, k.prevPage, k.nextPage, k.create, k.logout, k.reload},
		{k.open, k.remove, k.yes, k.no, k.quit},
	}
}
