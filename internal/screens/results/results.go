package results

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/coach"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/router"
	"github.com/abhisek/privcheck/internal/scoring"
	"github.com/abhisek/privcheck/internal/screen"
	"github.com/abhisek/privcheck/internal/ui/components"
	"github.com/abhisek/privcheck/internal/ui/layout"
	"github.com/abhisek/privcheck/internal/ui/theme"
)

// tipsTimeout bounds the whole coach round.
const tipsTimeout = 90 * time.Second

type tipsMsg struct {
	Tips []coach.CategoryTips
	Err  error
}

// Options configures a results screen.
type Options struct {
	// Answers feed the coach. Without them no tips are requested.
	Answers scoring.Answers
	Coach   *coach.Coach

	// CompletedAt is shown for stored results.
	CompletedAt time.Time
}

// ResultsScreen shows an outcome with its per-category breakdown and
// remediation plan.
type ResultsScreen struct {
	outcome scoring.Outcome
	opts    Options

	tips        map[string][]string
	tipsLoading bool
	tipsErr     string
	scroll      int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen.
func New(outcome scoring.Outcome, opts Options) *ResultsScreen {
	return &ResultsScreen{outcome: outcome, opts: opts}
}

func (s *ResultsScreen) Init() tea.Cmd {
	c := s.opts.Coach
	if !c.Enabled() || len(s.opts.Answers) == 0 {
		return nil
	}
	s.tipsLoading = true
	outcome, answers := s.outcome, s.opts.Answers
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tipsTimeout)
		defer cancel()
		tips, err := c.Tips(ctx, outcome, answers)
		return tipsMsg{Tips: tips, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return content.KindDisplayName(s.outcome.Kind) + " Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tipsMsg:
		s.tipsLoading = false
		s.tips = make(map[string][]string)
		for _, ct := range msg.Tips {
			if ct.Generated {
				s.tips[ct.Category] = ct.Tips
			}
		}
		s.tipsErr = coach.Notice(msg.Err)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, s.renderHeadline(width))
	sections = append(sections, s.renderCategories(cw, width))
	sections = append(sections, s.renderPlan(cw, width))

	lines := strings.Split(strings.Join(sections, "\n\n"), "\n")
	maxScroll := max(len(lines)-height, 0)
	s.scroll = min(s.scroll, maxScroll)
	lines = lines[s.scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (s *ResultsScreen) renderHeadline(width int) string {
	var b strings.Builder
	b.WriteString("\n")

	pct := s.outcome.Percentage()
	rating := s.outcome.Rating()
	b.WriteString(layout.Centered(lipgloss.NewStyle().
		Foreground(ratingColor(rating)).
		Bold(true).
		Render(fmt.Sprintf("%d%%", pct)), width))
	b.WriteString("\n")

	var label string
	switch {
	case s.outcome.Result != nil:
		r := s.outcome.Result
		label = fmt.Sprintf("%s  ·  %d of %d points", displayRating(rating), r.Score, r.MaxScore)
	case s.outcome.Audit != nil:
		a := s.outcome.Audit
		label = fmt.Sprintf("%s risk  ·  %d of %d weighted points", displayRating(rating), a.Score, a.MaxScore)
	}
	b.WriteString(layout.Centered(theme.Body.Render(label), width))

	if !s.opts.CompletedAt.IsZero() {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint.Render(
			"Completed "+s.opts.CompletedAt.Local().Format("Jan 02, 2006 15:04")), width))
	}
	return b.String()
}

func (s *ResultsScreen) renderCategories(cw, width int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Categories"))
	b.WriteString("\n")

	labelWidth := 0
	for _, name := range s.categoryNames() {
		labelWidth = max(labelWidth, lipgloss.Width(name))
	}

	switch {
	case s.outcome.Result != nil:
		for _, c := range s.outcome.Result.Categories {
			pct := scoring.Percentage(c.Score, c.MaxScore)
			bar := components.NewProgressBar(c.Category, float64(pct)/100, true, cw-8)
			bar.LabelWidth = labelWidth
			bar.Color = ratingColor(string(scoring.LevelFor(pct)))
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
	case s.outcome.Audit != nil:
		for _, c := range s.outcome.Audit.Categories {
			bar := components.NewProgressBar(c.Category, float64(c.Percentage)/100, true, cw-8)
			bar.LabelWidth = labelWidth
			bar.Color = ratingColor(string(c.Risk))
			b.WriteString(bar.View())
			b.WriteString("\n")
		}
	}
	return layout.Centered(components.Card(strings.TrimRight(b.String(), "\n"), cw), width)
}

func (s *ResultsScreen) categoryNames() []string {
	var names []string
	switch {
	case s.outcome.Result != nil:
		for _, c := range s.outcome.Result.Categories {
			names = append(names, c.Category)
		}
	case s.outcome.Audit != nil:
		for _, c := range s.outcome.Audit.Categories {
			names = append(names, c.Category)
		}
	}
	return names
}

func (s *ResultsScreen) renderPlan(cw, width int) string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(cw - 8).Foreground(theme.Text)

	switch {
	case s.outcome.Result != nil:
		b.WriteString(theme.Heading.Render("Action plan"))
		b.WriteString("\n")
		if len(s.outcome.Result.ActionPlan) == 0 {
			b.WriteString(theme.Hint.Render("Nothing to fix. Keep it up!"))
		}
		for _, item := range s.outcome.Result.ActionPlan {
			b.WriteString("\n")
			b.WriteString(theme.Selected.Render(fmt.Sprintf("%d. %s", item.Priority, item.Title)))
			b.WriteString("\n")
			b.WriteString(s.renderSteps(item.Category, item.Steps, wrap))
			if item.Resource != "" {
				b.WriteString(theme.Hint.Render("   " + item.Resource))
				b.WriteString("\n")
			}
		}
	case s.outcome.Audit != nil:
		b.WriteString(theme.Heading.Render("Recommendations"))
		b.WriteString("\n")
		if len(s.outcome.Audit.Recommendations) == 0 {
			b.WriteString(theme.Hint.Render("Every category is low risk."))
		}
		for _, rec := range s.outcome.Audit.Recommendations {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(ratingColor(string(rec.Risk))).Bold(true).
				Render(fmt.Sprintf("%d. %s (%s risk, %d%%)", rec.Priority, rec.Category, rec.Risk, rec.Percentage)))
			b.WriteString("\n")
			b.WriteString(s.renderSteps(rec.Category, rec.Actions, wrap))
		}
	}

	switch {
	case s.tipsLoading:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Asking the coach for personalized tips..."))
	case s.tipsErr != "":
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(s.tipsErr))
	}
	return layout.Centered(components.Card(strings.TrimRight(b.String(), "\n"), cw), width)
}

// renderSteps prefers coach tips for the category over the generic steps.
func (s *ResultsScreen) renderSteps(category string, steps []string, wrap lipgloss.Style) string {
	bullet := "   • "
	if tips, ok := s.tips[category]; ok {
		steps = tips
		bullet = "   ✦ "
	}
	var b strings.Builder
	for _, step := range steps {
		b.WriteString(wrap.Render(bullet + step))
		b.WriteString("\n")
	}
	return b.String()
}

func displayRating(r string) string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(r[:1]) + r[1:]
}

// ratingColor maps user levels and risk tiers to traffic-light colors.
func ratingColor(rating string) color.Color {
	switch rating {
	case string(scoring.LevelAdvanced), string(scoring.RiskLow):
		return theme.Success
	case string(scoring.LevelIntermediate), string(scoring.RiskMedium):
		return theme.Warning
	case string(scoring.LevelBeginner), string(scoring.RiskHigh):
		return theme.Error
	default:
		return theme.Text
	}
}
