package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/coach"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/screen"
	"github.com/abhisek/privcheck/internal/screens/results"
	"github.com/abhisek/privcheck/internal/session"
	"github.com/abhisek/privcheck/internal/ui/components"
	"github.com/abhisek/privcheck/internal/ui/layout"
	"github.com/abhisek/privcheck/internal/ui/theme"
)

// startedMsg is sent when the session was resumed or started.
type startedMsg struct {
	Resumed bool
	Err     error
}

// advancedMsg is sent when a Next transition finished.
type advancedMsg struct {
	Err error
}

// AssessmentScreen walks the user through a session one question at a time.
type AssessmentScreen struct {
	sess   *session.Session
	coach  *coach.Coach
	logger *slog.Logger

	options components.OptionList
	step    int // step the option list was built for

	loaded  bool
	busy    bool
	resumed bool
	notice  string // refused transition, shown as a hint
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen for sess. c may be nil.
func New(sess *session.Session, c *coach.Coach, logger *slog.Logger) *AssessmentScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentScreen{sess: sess, coach: c, logger: logger, step: -1}
}

// Init resumes saved progress when there is some, and starts a new
// assessment otherwise.
func (s *AssessmentScreen) Init() tea.Cmd {
	s.busy = true
	sess, logger := s.sess, s.logger
	return func() tea.Msg {
		ctx := context.Background()
		resumed, err := sess.Resume(ctx)
		if err != nil {
			logger.Warn("resume failed, starting over", "err", err)
		}
		if resumed {
			return startedMsg{Resumed: true}
		}
		return startedMsg{Err: sess.Start(ctx)}
	}
}

func (s *AssessmentScreen) start() tea.Cmd {
	s.busy = true
	sess := s.sess
	return func() tea.Msg {
		return startedMsg{Err: sess.Start(context.Background())}
	}
}

func (s *AssessmentScreen) advance() tea.Cmd {
	s.busy = true
	sess := s.sess
	return func() tea.Msg {
		return advancedMsg{Err: sess.Next(context.Background())}
	}
}

func (s *AssessmentScreen) Title() string {
	return content.KindDisplayName(s.sess.Kind())
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.sess.State() != session.StateInProgress {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "Enter", Description: "Next"},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+R", Description: "Restart"},
		{Key: "Q", Description: "Save & leave"},
	}
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.busy = false
		s.loaded = true
		s.resumed = msg.Resumed
		s.handleErr(msg.Err)
		s.syncOptions()
		return s, nil

	case advancedMsg:
		s.busy = false
		s.handleErr(msg.Err)
		if msg.Err == nil && s.sess.State() == session.StateCompleted {
			return s, s.showResults()
		}
		s.syncOptions()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// While a request is pending only leaving is allowed; progress is kept.
	if s.busy {
		if key == "esc" || key == "q" {
			return s, popScreen
		}
		return s, nil
	}

	switch s.sess.State() {
	case session.StateNotStarted:
		switch key {
		case "enter":
			return s, s.start()
		case "esc", "q":
			return s, popScreen
		}
		return s, nil
	case session.StateCompleted:
		return s, s.showResults()
	}

	switch key {
	case "enter":
		if err := s.choose(); err != nil {
			return s, nil
		}
		return s, s.advance()
	case "space":
		_ = s.choose()
		return s, nil
	case "left", "p":
		s.notice = ""
		s.sess.Previous()
		s.syncOptions()
		return s, nil
	case "esc":
		// Back at the first question abandons the assessment.
		s.notice = ""
		atStart := s.sess.Step() == 0
		s.sess.Back(context.Background())
		if atStart {
			return s, popScreen
		}
		s.syncOptions()
		return s, nil
	case "ctrl+r":
		s.notice = ""
		s.resumed = false
		s.sess.Reset(context.Background())
		s.step = -1
		return s, s.start()
	case "q":
		return s, popScreen
	}

	s.options = s.options.Update(msg)
	return s, nil
}

// choose records the option under the cursor as the current answer.
func (s *AssessmentScreen) choose() error {
	q, ok := s.sess.CurrentQuestion()
	if !ok || s.options.Cursor >= len(q.Options) {
		return errors.New("no question")
	}
	if err := s.sess.Answer(q.Options[s.options.Cursor].Value); err != nil {
		s.handleErr(err)
		return err
	}
	s.notice = ""
	s.options.Chosen = s.options.Cursor
	return nil
}

// handleErr keeps validation messages for display. Service errors are read
// back from the session so a later successful transition clears them.
func (s *AssessmentScreen) handleErr(err error) {
	var verr *session.ValidationError
	switch {
	case err == nil:
		s.notice = ""
	case errors.As(err, &verr):
		s.notice = verr.Reason
	case errors.Is(err, session.ErrInterrupted):
		s.logger.Debug("dropped stale response")
	default:
		s.notice = ""
	}
}

// syncOptions rebuilds the option list when the step changed.
func (s *AssessmentScreen) syncOptions() {
	q, ok := s.sess.CurrentQuestion()
	if !ok {
		s.step = -1
		return
	}
	step := s.sess.Step()
	if step == s.step {
		return
	}
	s.step = step

	labels := make([]string, len(q.Options))
	chosen := -1
	a, answered := s.sess.CurrentAnswer()
	for i, o := range q.Options {
		labels[i] = o.Label
		if answered && o.Value == a.Value {
			chosen = i
		}
	}
	s.options = components.NewOptionList(labels, chosen)
}

func (s *AssessmentScreen) showResults() tea.Cmd {
	out := s.sess.Outcome()
	if out == nil {
		return popScreen
	}
	next := results.New(*out, results.Options{Answers: s.sess.Answers(), Coach: s.coach})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func popScreen() tea.Msg { return router.PopScreenMsg{} }

func (s *AssessmentScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Preparing your assessment...")
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.sess.State() != session.StateInProgress {
		b.WriteString(s.renderErrorLine(width))
		return b.String()
	}

	q, _ := s.sess.CurrentQuestion()
	cw := components.ContentWidth(width)
	total := s.sess.StepCount()

	infoLeft := theme.Heading.Render("  " + q.Category)
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Question %d/%d  ·  %s", s.sess.Step()+1, total, s.sess.Mode()))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 2; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("Answered", float64(s.sess.AnsweredCount())/float64(max(total, 1)), true, cw)
	b.WriteString(layout.Centered(bar.View(), width))
	b.WriteString("\n\n")

	if s.resumed {
		b.WriteString(layout.Centered(theme.Hint.Render("Picked up where you left off."), width))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(lipgloss.NewStyle().Width(min(width-8, 70)).Render(q.Text)))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(s.options.View(), width))
	b.WriteString("\n")

	switch {
	case s.busy && s.sess.Mode() == session.ModeRemote:
		b.WriteString(layout.Centered(theme.Hint.Render("Contacting the assessment service..."), width))
	case s.notice != "":
		b.WriteString(layout.Centered(theme.Notice.Render(s.notice), width))
	default:
		b.WriteString(s.renderErrorLine(width))
	}

	return b.String()
}

// renderErrorLine shows the last service failure with a retry hint.
func (s *AssessmentScreen) renderErrorLine(width int) string {
	err := s.sess.LastError()
	if err == nil {
		if s.sess.State() == session.StateNotStarted {
			return layout.Centered(theme.Hint.Render("Press Enter to start."), width)
		}
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("%s\nPress Enter to retry.", err))
}
