package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func digit(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestNewOptionList_CursorOnChosen(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, 2)
	if o.Cursor != 2 || o.Chosen != 2 {
		t.Errorf("cursor %d chosen %d, want 2/2", o.Cursor, o.Chosen)
	}

	o = NewOptionList([]string{"a", "b"}, 5)
	if o.Cursor != 0 || o.Chosen != -1 {
		t.Errorf("out of range chosen: cursor %d chosen %d, want 0/-1", o.Cursor, o.Chosen)
	}
}

func TestOptionList_Navigation(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, -1)

	o = o.Update(press(tea.KeyUp))
	if o.Cursor != 0 {
		t.Errorf("up at top: cursor = %d", o.Cursor)
	}
	o = o.Update(press(tea.KeyDown))
	o = o.Update(press(tea.KeyDown))
	o = o.Update(press(tea.KeyDown))
	if o.Cursor != 2 {
		t.Errorf("down past bottom: cursor = %d, want 2", o.Cursor)
	}

	o = o.Update(digit('1'))
	if o.Cursor != 0 {
		t.Errorf("digit 1: cursor = %d, want 0", o.Cursor)
	}
	o = o.Update(digit('9'))
	if o.Cursor != 0 {
		t.Errorf("digit past end moved cursor to %d", o.Cursor)
	}
	if o.Chosen != -1 {
		t.Error("navigation must not choose")
	}
}

func TestOptionList_View(t *testing.T) {
	o := NewOptionList([]string{"Never", "Sometimes"}, 1)
	o.Cursor = 0
	view := o.View()

	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "▸") || !strings.Contains(lines[0], "○ Never") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2) ● Sometimes") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestProgressBar_Percent(t *testing.T) {
	for _, tt := range []struct {
		percent float64
		want    string
	}{
		{0, "0%"},
		{0.333, "33%"},
		{1, "100%"},
	} {
		view := NewProgressBar("Answered", tt.percent, true, 40).View()
		if !strings.Contains(view, tt.want) {
			t.Errorf("percent %v: view missing %q", tt.percent, tt.want)
		}
		if !strings.Contains(view, "Answered") {
			t.Error("expected label")
		}
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	called := false
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "On", Action: func() tea.Cmd { called = true; return nil }},
		{Label: "Off too", Disabled: true},
	})
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(press(tea.KeyDown))
	if m.Selected != 1 {
		t.Errorf("down onto disabled item: selected = %d", m.Selected)
	}
	m.Update(press(tea.KeyEnter))
	if !called {
		t.Error("expected enter to run the item action")
	}
}

func TestTextInput_ValueNormalized(t *testing.T) {
	ti := NewTextInput("filter", 20)
	ti.Model.SetValue("  Quick AUDIT ")
	if got := ti.Value(); got != "quick audit" {
		t.Errorf("Value = %q", got)
	}
	ti.Reset()
	if ti.Value() != "" {
		t.Error("expected empty value after reset")
	}
}
