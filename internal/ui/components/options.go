package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/privcheck/internal/ui/theme"
)

// OptionList is a single-choice selector. Cursor is the highlighted row;
// Chosen is the option already recorded as the answer, or -1.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewOptionList creates a selector with the cursor on the chosen option,
// or on the first one when nothing is chosen.
func NewOptionList(options []string, chosen int) OptionList {
	if chosen < -1 || chosen >= len(options) {
		chosen = -1
	}
	return OptionList{
		Options: options,
		Cursor:  max(chosen, 0),
		Chosen:  chosen,
	}
}

// Update moves the cursor with arrows and jumps with digit keys.
func (o OptionList) Update(msg tea.Msg) OptionList {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(o.Options) {
				o.Cursor = i
			}
		}
	}
	return o
}

// View renders one line per option.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == o.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", prefix, i+1, mark, opt)

		switch {
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == o.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
