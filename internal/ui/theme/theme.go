// Package theme is the privcheck palette and the text styles shared by
// every screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Primary is the brand blue; Success, Warning and Error are kept
// for ratings, risk tiers and notices.
var (
	Primary   = lipgloss.Color("#2F6FEB")
	Secondary = lipgloss.Color("#0EA5A4")
	Accent    = lipgloss.Color("#9D8CF5")
	Success   = lipgloss.Color("#3FB950")
	Warning   = lipgloss.Color("#E3A008")
	Error     = lipgloss.Color("#E5534B")
	Text      = lipgloss.Color("#E6EDF3")
	TextDim   = lipgloss.Color("#8B98A9")
	BgCard    = lipgloss.Color("#161B26")
	Border    = lipgloss.Color("#2D3645")
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Body    = fg(Text)
	Hint    = fg(TextDim).Italic(true)
	Heading = fg(Secondary).Bold(true)

	// Notice is a one-line warning, e.g. a fallback to generic steps.
	Notice = fg(Warning)

	// Option states in pickers: the cursor row, other rows, and the
	// option already answered.
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Chosen     = fg(Secondary).Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)
