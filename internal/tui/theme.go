package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typedash/internal/model"
)

type palette struct {
	text    lipgloss.Color
	wrong   lipgloss.Color
	pending lipgloss.Color
	current lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	track   lipgloss.Color
}

var (
	darkPalette = palette{
		text:    lipgloss.Color("#F0F0F0"),
		wrong:   lipgloss.Color("#FF4D4F"),
		pending: lipgloss.Color("#8C8C8C"),
		current: lipgloss.Color("#C89A3A"),
		muted:   lipgloss.Color("#6E6E6E"),
		accent:  lipgloss.Color("#C89A3A"),
		track:   lipgloss.Color("#3A3A3A"),
	}
	lightPalette = palette{
		text:    lipgloss.Color("#1F1F1F"),
		wrong:   lipgloss.Color("#C4161C"),
		pending: lipgloss.Color("#9A9A9A"),
		current: lipgloss.Color("#8A5A00"),
		muted:   lipgloss.Color("#707070"),
		accent:  lipgloss.Color("#8A5A00"),
		track:   lipgloss.Color("#D6D6D6"),
	}
)

type styles struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	muted       lipgloss.Style
	title       lipgloss.Style
	value       lipgloss.Style
	barFill     lipgloss.Style
	barTrack    lipgloss.Style
	results     lipgloss.Style
}

func newStyles(theme model.Theme) styles {
	p := darkPalette
	if theme == model.ThemeLight {
		p = lightPalette
	}
	return styles{
		correct:     lipgloss.NewStyle().Foreground(p.text),
		incorrect:   lipgloss.NewStyle().Foreground(p.wrong),
		pending:     lipgloss.NewStyle().Foreground(p.pending),
		currentWord: lipgloss.NewStyle().Foreground(p.current),
		muted:       lipgloss.NewStyle().Foreground(p.muted),
		title:       lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		value:       lipgloss.NewStyle().Foreground(p.text).Bold(true),
		barFill:     lipgloss.NewStyle().Foreground(p.accent),
		barTrack:    lipgloss.NewStyle().Foreground(p.track),
		results: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(p.accent),
	}
}
