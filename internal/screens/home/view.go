package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/session"
	"github.com/abhisek/privcheck/internal/store"
	"github.com/abhisek/privcheck/internal/ui/theme"
)

const titleFull = `┌─┐┬─┐┬┬  ┬┌─┐┬ ┬┌─┐┌─┐┬┌─
├─┘├┬┘│└┐┌┘│  ├─┤├┤ │  ├┴┐
┴  ┴└─┴ └┘ └─┘┴ ┴└─┘└─┘┴ ┴`

const titleCompact = "p r i v c h e c k"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title) + "\n" +
			theme.Hint.Render("How exposed is your personal data?"))
}

// renderScores shows the latest score of every questionnaire.
func renderScores(status map[content.Kind]kindStatus, cw int) string {
	var parts []string
	for _, kind := range content.AllKinds() {
		name := lipgloss.NewStyle().Foreground(theme.TextDim).Render(content.KindDisplayName(kind) + ": ")
		latest := status[kind].Latest
		if latest == nil {
			parts = append(parts, name+lipgloss.NewStyle().Foreground(theme.TextDim).Render("not taken"))
			continue
		}
		parts = append(parts, name+lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(formatLatest(latest)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, "\n"))
}

func formatLatest(e *store.ResultEntry) string {
	if e.Kind == content.KindAudit {
		return fmt.Sprintf("%d%% (%s risk)", e.Percentage, e.Rating)
	}
	return fmt.Sprintf("%d%% (%s)", e.Percentage, e.Rating)
}

// renderCoachNote explains how to enable personalized tips.
func renderCoachNote(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("Set an LLM API key for personalized tips (see privcheck --help)")
}

func renderModeNote(mode session.Mode, cw int) string {
	text := "Answers are scored on this device"
	if mode == session.ModeRemote {
		text = "Answers are scored by the assessment service"
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Hint.Render(text))
}
