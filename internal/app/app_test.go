package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/scoring"
	"github.com/abhisek/privcheck/internal/screens/home"
	"github.com/abhisek/privcheck/internal/screens/results"
	"github.com/abhisek/privcheck/internal/session"
)

type stubRemote struct{}

func (stubRemote) StartAssessment(context.Context, content.Kind) (string, error) { return "r", nil }
func (stubRemote) SubmitAnswer(context.Context, string, scoring.Answer) error    { return nil }
func (stubRemote) CompleteAssessment(context.Context, string) (scoring.Outcome, error) {
	return scoring.Outcome{}, nil
}

func TestNewAppModel_Status(t *testing.T) {
	m := newAppModel(Options{})
	if m.status != "local  " {
		t.Errorf("status = %q, want local", m.status)
	}

	m = newAppModel(Options{
		Deps:        home.Deps{Remote: stubRemote{}, Identity: &session.Identity{Token: "t"}},
		RemoteLabel: "assess.example.com",
	})
	if m.status != "remote: assess.example.com  " {
		t.Errorf("status = %q", m.status)
	}

	// A client without credentials stays local.
	m = newAppModel(Options{Deps: home.Deps{Remote: stubRemote{}}})
	if m.status != "local  " {
		t.Errorf("status = %q, want local", m.status)
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_EscGoesToScreen(t *testing.T) {
	m := newAppModel(Options{})
	m.Update(router.PushScreenMsg{Screen: results.New(scoring.Evaluate(content.KindQuick, nil), results.Options{})})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected the results screen to handle Esc")
	}
	m.Update(cmd())
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d after Esc, want 1", m.router.Depth())
	}
}

func TestAppModel_FooterHints(t *testing.T) {
	m := newAppModel(Options{})
	hints := m.footerHints(m.router.Active())
	if len(hints) != 3 || hints[2].Key != "Q" {
		t.Errorf("home hints = %+v", hints)
	}

	m.Update(router.PushScreenMsg{Screen: results.New(scoring.Evaluate(content.KindQuick, nil), results.Options{})})
	hints = m.footerHints(m.router.Active())
	if last := hints[len(hints)-1]; last.Key != "Ctrl+C" {
		t.Errorf("last hint = %+v, want Ctrl+C", last)
	}
}

func TestAppModel_WindowSize(t *testing.T) {
	m := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 40 {
		t.Errorf("size = %dx%d", am.width, am.height)
	}
	_ = am.View()
}
