package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/radicool/habitkeep/internal/prefs"
)

type styles struct {
	doc     lipgloss.Style
	title   lipgloss.Style
	status  lipgloss.Style
	danger  lipgloss.Style
	streak  lipgloss.Style
	balance lipgloss.Style
}

// newStyles derives the palette from the user's color preferences.
func newStyles(settings prefs.Settings) styles {
	accent := lipgloss.Color(settings.ButtonHex())
	return styles{
		doc: lipgloss.NewStyle().Padding(1, 2),
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(settings.BackgroundHex())).
			Background(accent).
			Padding(0, 1).
			Bold(true),
		status: lipgloss.NewStyle().
			Foreground(accent),
		danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		streak: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		balance: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
	}
}
