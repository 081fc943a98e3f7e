package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestFrame_FillsTerminal(t *testing.T) {
	hints := []KeyHint{{Key: "Enter", Description: "Select"}, {Key: "q", Description: "Quit"}}
	f := NewFrame("Privacy Quick Check", "scored locally", hints, 100, 30)

	if got := f.BodyHeight(); got != 30-chromeHeight {
		t.Fatalf("BodyHeight() = %d, want %d", got, 30-chromeHeight)
	}

	out := f.Render("question 1 of 5")
	if h := lipgloss.Height(out); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
	for _, want := range []string{"privcheck", "Privacy Quick Check", "scored locally", "Enter", "Select", "Quit", "question 1 of 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestFrame_ClipsLongBody(t *testing.T) {
	f := NewFrame("Results", "", nil, 80, 24)
	body := strings.Repeat("line\n", 100)
	if h := lipgloss.Height(f.Render(body)); h != 24 {
		t.Errorf("frame height = %d, want 24", h)
	}
}

func TestSizes(t *testing.T) {
	if !IsTooSmall(79, 40) || !IsTooSmall(120, 23) || IsTooSmall(80, 24) {
		t.Error("IsTooSmall thresholds")
	}
	if !IsCompact(24 - chromeHeight) {
		t.Error("a 24-row terminal is compact")
	}
	if IsCompact(40 - chromeHeight) {
		t.Error("a 40-row terminal is not compact")
	}
	if msg := TooSmall(60, 20); !strings.Contains(msg, "80x24") || !strings.Contains(msg, "60x20") {
		t.Errorf("TooSmall message: %q", msg)
	}
}
