package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/screen"
	"github.com/abhisek/privcheck/internal/screens/home"
	"github.com/abhisek/privcheck/internal/session"
	"github.com/abhisek/privcheck/internal/ui/layout"
)

// Options configures the TUI. It is the home screen's dependency set plus
// a label for where answers are scored.
type Options struct {
	home.Deps

	// RemoteLabel is shown in the header in remote mode, e.g. the host.
	RemoteLabel string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	status := "local"
	if session.SelectStrategy(opts.Identity, opts.Remote).Mode() == session.ModeRemote {
		status = "remote"
		if opts.RemoteLabel != "" {
			status += ": " + opts.RemoteLabel
		}
	}
	return AppModel{
		router: router.New(home.New(opts.Deps)),
		status: status + "  ",
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	// Screens handle Esc themselves; some use it for more than leaving.
	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.TooSmall(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	frame := layout.NewFrame(title, m.status, m.footerHints(active), m.width, m.height)
	v.SetContent(frame.Render(m.router.View(m.width, frame.BodyHeight())))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
