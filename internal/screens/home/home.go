package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/privcheck/internal/coach"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/screen"
	"github.com/abhisek/privcheck/internal/screens/assessment"
	"github.com/abhisek/privcheck/internal/screens/history"
	"github.com/abhisek/privcheck/internal/session"
	"github.com/abhisek/privcheck/internal/store"
	"github.com/abhisek/privcheck/internal/ui/components"
	"github.com/abhisek/privcheck/internal/ui/layout"
)

// Deps are the services the home screen hands to the screens it opens.
type Deps struct {
	// Store persists progress and results. Nil disables history and resume.
	Store *store.Store

	// Coach personalizes the remediation plan. Nil or disabled hides tips.
	Coach *coach.Coach

	// Remote and Identity select remote scoring when both are set.
	Remote   session.RemoteClient
	Identity *session.Identity

	Logger *slog.Logger
}

// kindStatus is what the home screen knows about one questionnaire.
type kindStatus struct {
	Latest     *store.ResultEntry
	InProgress bool
}

type statusLoadedMsg struct {
	Status map[content.Kind]kindStatus
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	mode   session.Mode
	menu   components.Menu
	status map[content.Kind]kindStatus
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	h := &HomeScreen{
		deps:   deps,
		mode:   session.SelectStrategy(deps.Identity, deps.Remote).Mode(),
		status: map[content.Kind]kindStatus{},
	}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, 4)
	for _, kind := range content.AllKinds() {
		items = append(items, components.MenuItem{
			Label:  content.KindDisplayName(kind),
			Detail: h.detail(kind),
			Action: func() tea.Cmd {
				next := assessment.New(h.newSession(kind), h.deps.Coach, h.deps.Logger)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "History",
			Disabled: h.deps.Store == nil,
			Action: func() tea.Cmd {
				next := history.New(h.deps.Store)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		},
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	return items
}

// newSession builds a session for kind, keeping nil stores out of the
// session's interfaces.
func (h *HomeScreen) newSession(kind content.Kind) *session.Session {
	opts := session.Options{Logger: h.deps.Logger}
	if h.deps.Store != nil {
		opts.Store = h.deps.Store
		opts.Events = h.deps.Store
	}
	return session.New(kind, session.SelectStrategy(h.deps.Identity, h.deps.Remote), opts)
}

func (h *HomeScreen) detail(kind content.Kind) string {
	st := h.status[kind]
	var parts []string
	if st.InProgress {
		parts = append(parts, "in progress")
	}
	if st.Latest != nil {
		parts = append(parts, "last: "+formatLatest(st.Latest))
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.Refresh()
}

// Refresh reloads the latest results and saved progress.
func (h *HomeScreen) Refresh() tea.Cmd {
	st, mode, logger := h.deps.Store, h.mode, h.deps.Logger
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		status := make(map[content.Kind]kindStatus)
		for _, kind := range content.AllKinds() {
			var ks kindStatus
			latest, err := st.LatestResult(ctx, kind)
			if err != nil {
				logger.Warn("load latest result failed", "kind", kind, "err", err)
			}
			ks.Latest = latest
			p, err := st.LoadProgress(ctx, kind, mode)
			if err != nil {
				logger.Warn("load progress failed", "kind", kind, "err", err)
			}
			ks.InProgress = p != nil
			status[kind] = ks
		}
		return statusLoadedMsg{Status: status}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		h.status = msg.Status
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		h.menu.Selected = selected
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(height)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderScores(h.status, cw))
	if !h.deps.Coach.Enabled() {
		sections = append(sections, renderCoachNote(cw))
	}
	sections = append(sections, components.Card(h.menu.View(), cw))
	sections = append(sections, renderModeNote(h.mode, cw))

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
