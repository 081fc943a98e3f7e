package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/screen"
	"github.com/abhisek/privcheck/internal/screens/results"
	"github.com/abhisek/privcheck/internal/store"
	"github.com/abhisek/privcheck/internal/ui/components"
	"github.com/abhisek/privcheck/internal/ui/layout"
	"github.com/abhisek/privcheck/internal/ui/theme"
)

// pageSize is how many stored results are loaded.
const pageSize = 100

// Reader lists stored results, newest first.
type Reader interface {
	History(ctx context.Context, opts store.QueryOpts) ([]store.ResultEntry, error)
}

type historyLoadedMsg struct {
	Entries []store.ResultEntry
	Err     error
}

// HistoryScreen lists completed assessments, filtered by a text input
// matched against kind, rating, mode and date.
type HistoryScreen struct {
	reader   Reader
	entries  []store.ResultEntry
	visible  []int // indexes into entries matching the filter
	filter   components.TextInput
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.Refresher = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(reader Reader) *HistoryScreen {
	return &HistoryScreen{
		reader: reader,
		filter: components.NewTextInput("filter: quick, audit, high, 2026-03...", 40),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return tea.Batch(s.filter.Init(), s.load())
}

func (s *HistoryScreen) Refresh() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	reader := s.reader
	return func() tea.Msg {
		entries, err := reader.History(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Type", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.entries = msg.Entries
		s.applyFilter()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if s.filter.Value() != "" {
				s.filter.Reset()
				s.applyFilter()
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.visible)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.visible) {
				e := s.entries[s.visible[s.selected]]
				detail := results.New(e.Outcome, results.Options{CompletedAt: e.CompletedAt})
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.applyFilter()
	return s, cmd
}

// applyFilter keeps entries whose searchable text contains every word of
// the filter.
func (s *HistoryScreen) applyFilter() {
	words := strings.Fields(s.filter.Value())
	s.visible = s.visible[:0]
	for i, e := range s.entries {
		text := searchText(e)
		match := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				match = false
				break
			}
		}
		if match {
			s.visible = append(s.visible, i)
		}
	}
	s.selected = min(s.selected, max(len(s.visible)-1, 0))
}

func searchText(e store.ResultEntry) string {
	return strings.ToLower(strings.Join([]string{
		string(e.Kind),
		content.KindDisplayName(e.Kind),
		e.Rating,
		string(e.Mode),
		e.CompletedAt.Local().Format("2006-01-02 Jan"),
	}, " "))
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet. Take a quick check from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(s.filter.View(), width))
	b.WriteString("\n\n")

	if len(s.visible) == 0 {
		b.WriteString(layout.Centered(theme.Hint.Render("No results match the filter."), width))
		return b.String()
	}

	// Keep the selection on screen.
	rows := max(height-4, 1)
	first := 0
	if s.selected >= rows {
		first = s.selected - rows + 1
	}
	last := min(first+rows, len(s.visible))

	for i := first; i < last; i++ {
		e := s.entries[s.visible[i]]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-20s  %3d%%  %-12s  %s",
			prefix,
			e.CompletedAt.Local().Format("Jan 02, 2006 15:04"),
			content.KindDisplayName(e.Kind),
			e.Percentage,
			e.Rating,
			e.Mode)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(layout.Centered(style.Render(line), width))
		b.WriteString("\n")
	}

	return b.String()
}
