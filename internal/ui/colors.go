package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#2BD17E", "#2BD17E", "#EB5757", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	tile    lipgloss.Style
	focused lipgloss.Style
	muted   lipgloss.Style
	button  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	tile := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#224957")).
		Padding(0, 1).
		Width(tileWidth)

	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		tile:    tile,
		focused: tile.BorderForeground(lipgloss.Color(s)),
		muted:   NewEm(h),
		button:  NewBold("#093545").Background(lipgloss.Color(s)).Padding(0, 2),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
