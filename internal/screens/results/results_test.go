package results

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/privcheck/internal/coach"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/llm"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/scoring"
)

// pickWorst answers every question with its last, lowest-scoring option.
func pickWorst(t *testing.T, kind content.Kind) scoring.Answers {
	t.Helper()
	answers := scoring.Answers{}
	for _, q := range content.Questions(kind) {
		a, err := scoring.NewAnswer(q, q.Options[len(q.Options)-1].Value)
		if err != nil {
			t.Fatalf("NewAnswer(%s): %v", q.ID, err)
		}
		answers[q.ID] = a
	}
	return answers
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(scoring.Evaluate(content.KindAudit, nil), Options{})
	if s.Title() != "Privacy Risk Audit Results" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestResultsScreen_QuickView(t *testing.T) {
	answers := pickWorst(t, content.KindQuick)
	out := scoring.Evaluate(content.KindQuick, answers)
	s := New(out, Options{})

	view := s.View(120, 500)
	if !strings.Contains(view, "Action plan") {
		t.Error("expected action plan heading")
	}
	if !strings.Contains(view, out.Result.Categories[0].Category) {
		t.Error("expected category breakdown")
	}
	if len(out.Result.ActionPlan) > 0 && !strings.Contains(view, out.Result.ActionPlan[0].Title) {
		t.Error("expected first action item")
	}
}

func TestResultsScreen_AuditView(t *testing.T) {
	out := scoring.Evaluate(content.KindAudit, pickWorst(t, content.KindAudit))
	s := New(out, Options{CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)})

	view := s.View(120, 500)
	if !strings.Contains(view, "Recommendations") {
		t.Error("expected recommendations heading")
	}
	if !strings.Contains(view, "Completed") {
		t.Error("expected completion date for stored results")
	}
}

func TestResultsScreen_NoCoachNoTips(t *testing.T) {
	s := New(scoring.Evaluate(content.KindQuick, pickWorst(t, content.KindQuick)), Options{})
	if cmd := s.Init(); cmd != nil {
		t.Error("expected no command without a coach")
	}
}

func TestResultsScreen_CoachTips(t *testing.T) {
	answers := pickWorst(t, content.KindQuick)
	out := scoring.Evaluate(content.KindQuick, answers)
	if len(out.Result.ActionPlan) == 0 {
		t.Skip("no action plan")
	}

	canned := llm.NewCanned()
	body, _ := json.Marshal(map[string]any{"tips": []string{"Turn on a password manager today"}})
	for range out.Result.ActionPlan {
		canned.Push(string(body))
	}
	c := coach.New(canned, coach.DefaultConfig(), nil)

	s := New(out, Options{Answers: answers, Coach: c})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a tips command")
	}
	if !strings.Contains(s.View(120, 500), "Asking the coach") {
		t.Error("expected loading hint while tips are pending")
	}

	s.Update(cmd())

	view := s.View(120, 500)
	if !strings.Contains(view, "Turn on a password manager today") {
		t.Error("expected generated tip in view")
	}
	if strings.Contains(view, "unavailable") {
		t.Error("did not expect a failure notice")
	}
}

func TestResultsScreen_CoachFailureKeepsSteps(t *testing.T) {
	answers := pickWorst(t, content.KindQuick)
	out := scoring.Evaluate(content.KindQuick, answers)
	if len(out.Result.ActionPlan) == 0 {
		t.Skip("no action plan")
	}

	s := New(out, Options{Answers: answers, Coach: coach.New(llm.NewCanned(), coach.DefaultConfig(), nil)})
	s.Update(s.Init()())

	view := s.View(120, 500)
	if !strings.Contains(view, "unavailable") {
		t.Error("expected failure notice")
	}
	step := out.Result.ActionPlan[0].Steps[0]
	if !strings.Contains(view, step[:min(10, len(step))]) {
		t.Error("expected generic steps to remain")
	}
}

func TestResultsScreen_RateLimitedCoach(t *testing.T) {
	answers := pickWorst(t, content.KindQuick)
	out := scoring.Evaluate(content.KindQuick, answers)
	if len(out.Result.ActionPlan) == 0 {
		t.Skip("no action plan")
	}

	canned := llm.NewCanned()
	for range out.Result.ActionPlan {
		canned.PushErr(&llm.Error{Failure: llm.RateLimited, Vendor: llm.ProviderOpenAI})
	}
	s := New(out, Options{Answers: answers, Coach: coach.New(canned, coach.DefaultConfig(), nil)})
	s.Update(s.Init()())

	if view := s.View(120, 500); !strings.Contains(view, "rate limiting") {
		t.Error("expected rate limit notice")
	}
}

func TestResultsScreen_Navigation(t *testing.T) {
	s := New(scoring.Evaluate(content.KindQuick, nil), Options{})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("Enter should return home")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Esc should pop one screen")
	}
}

func TestResultsScreen_ScrollClamped(t *testing.T) {
	s := New(scoring.Evaluate(content.KindAudit, pickWorst(t, content.KindAudit)), Options{})
	for range 500 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := s.View(120, 10)
	if got := len(strings.Split(view, "\n")); got > 10 {
		t.Errorf("view has %d lines, want at most 10", got)
	}
	if s.scroll == 0 {
		t.Error("expected scrolled position")
	}
}
