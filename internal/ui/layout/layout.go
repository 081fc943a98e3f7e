// Package layout draws the frame around the active screen: a header bar
// with the screen title, a footer bar with key hints, and the body between
// them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// chromeHeight is the rows taken by the bordered header and footer.
const chromeHeight = 6

// compactBelow is the terminal height under which screens drop
// decorative rows.
const compactBelow = 30

// KeyHint is a key and what it does, shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompact reports whether a screen given bodyHeight rows sits in a
// short terminal.
func IsCompact(bodyHeight int) bool {
	return bodyHeight+chromeHeight < compactBelow
}

// TooSmall is drawn instead of the frame when IsTooSmall.
func TooSmall(width, height int) string {
	msg := fmt.Sprintf("privcheck needs a %dx%d terminal.\n\nThis one is %dx%d; please enlarge it.",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(msg)
}

// Frame holds a rendered header and footer for one terminal size.
type Frame struct {
	header, footer string
	width, height  int
}

// NewFrame renders the header (app name, title, status) and the footer
// (hints) for a width x height terminal.
func NewFrame(title, status string, hints []KeyHint, width, height int) Frame {
	return Frame{
		header: bar(header(title, status, width-4), width),
		footer: bar(footer(hints), width),
		width:  width,
		height: height,
	}
}

// BodyHeight is the number of rows left for the screen.
func (f Frame) BodyHeight() int {
	return max(f.height-lipgloss.Height(f.header)-lipgloss.Height(f.footer), 0)
}

// Render stacks header, body and footer. The body is padded or clipped
// to BodyHeight.
func (f Frame) Render(body string) string {
	h := f.BodyHeight()
	body = lipgloss.NewStyle().Width(f.width).Height(h).MaxHeight(h).Render(body)
	return strings.Join([]string{f.header, body, f.footer}, "\n")
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// header centers title between the app name and status in inner columns.
func header(title, status string, inner int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  privcheck")
	mid := theme.Body.Render(title)
	side := lipgloss.NewStyle().Foreground(theme.TextDim).Render(status)

	nw, mw, sw := lipgloss.Width(name), lipgloss.Width(mid), lipgloss.Width(side)
	gapL := max((inner-mw)/2-nw, 1)
	gapR := max(inner-nw-gapL-mw-sw, 1)
	return name + strings.Repeat(" ", gapL) + mid + strings.Repeat(" ", gapR) + side
}

func footer(hints []KeyHint) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	b.WriteString(" ")
	for _, h := range hints {
		fmt.Fprintf(&b, " %s %s  ", key.Render(h.Key), desc.Render(h.Description))
	}
	return strings.TrimRight(b.String(), " ")
}

// Centered places s in the middle of a width-wide line.
func Centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
