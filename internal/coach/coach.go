// Package coach personalizes the remediation plan of a completed
// assessment with tips generated by an LLM provider.
package coach

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/llm"
	"github.com/abhisek/privcheck/internal/scoring"
)

// MaxTips is the most tips requested per category.
const MaxTips = 3

// Purpose labels coach requests in the LLM event log.
const Purpose = "coach"

// Config holds tip generation settings.
type Config struct {
	MaxTokens     int
	Temperature   float64
	MaxConcurrent int
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{MaxTokens: 512, Temperature: 0.3, MaxConcurrent: 3}
}

// AnsweredQuestion is a question and the label of the chosen option.
type AnsweredQuestion struct {
	Question string
	Answer   string
}

// Focus is one category the coach is asked about.
type Focus struct {
	Category   string
	Percentage int
	Risk       scoring.Risk
	Steps      []string
	Answers    []AnsweredQuestion
}

// CategoryTips holds the tips of one category. Generated is false when
// the provider failed and Tips are the plan's generic steps.
type CategoryTips struct {
	Category  string
	Tips      []string
	Generated bool
}

// Coach generates tips through an llm.Provider.
type Coach struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger
}

// New creates a Coach. A nil provider yields a disabled coach.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Coach {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{provider: provider, cfg: cfg, logger: logger.With("component", "coach")}
}

// Enabled reports whether a provider is configured.
func (c *Coach) Enabled() bool {
	return c != nil && c.provider != nil
}

// Tips asks for tips on every category in the outcome's plan, in plan
// order. Categories are requested concurrently. Failed categories keep
// their generic steps; the failures are joined into the returned error.
func (c *Coach) Tips(ctx context.Context, outcome scoring.Outcome, answers scoring.Answers) ([]CategoryTips, error) {
	focus := FocusFor(outcome, answers)
	out := make([]CategoryTips, len(focus))
	for i, f := range focus {
		out[i] = CategoryTips{Category: f.Category, Tips: f.Steps}
	}
	if !c.Enabled() || len(focus) == 0 {
		return out, nil
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	errs := make([]error, len(focus))

	var g errgroup.Group
	g.SetLimit(c.cfg.MaxConcurrent)
	for i, f := range focus {
		g.Go(func() error {
			tips, err := c.generate(ctx, f)
			if err != nil {
				c.logger.Warn("tip generation failed", "category", f.Category, "err", err)
				errs[i] = fmt.Errorf("%s: %w", f.Category, err)
				return nil
			}
			out[i] = CategoryTips{Category: f.Category, Tips: tips, Generated: true}
			return nil
		})
	}
	_ = g.Wait()

	return out, errors.Join(errs...)
}

type tipsOutput struct {
	Tips []string `json:"tips"`
}

func (c *Coach) generate(ctx context.Context, f Focus) ([]string, error) {
	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(f),
		Schema:      TipsSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var out tipsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse tips response: %w", err)
	}
	if len(out.Tips) == 0 {
		return nil, errors.New("no tips in response")
	}
	if len(out.Tips) > MaxTips {
		out.Tips = out.Tips[:MaxTips]
	}
	return out.Tips, nil
}

// FocusFor lists the categories worth coaching on: the action plan of a
// quick check, or the at-risk categories of an audit.
func FocusFor(outcome scoring.Outcome, answers scoring.Answers) []Focus {
	var focus []Focus
	switch {
	case outcome.Result != nil:
		pct := make(map[string]int, len(outcome.Result.Categories))
		for _, cs := range outcome.Result.Categories {
			pct[cs.Category] = scoring.Percentage(cs.Score, cs.MaxScore)
		}
		for _, item := range outcome.Result.ActionPlan {
			focus = append(focus, Focus{
				Category:   item.Category,
				Percentage: pct[item.Category],
				Steps:      item.Steps,
				Answers:    answered(outcome.Kind, item.Category, answers),
			})
		}
	case outcome.Audit != nil:
		for _, rec := range outcome.Audit.Recommendations {
			focus = append(focus, Focus{
				Category:   rec.Category,
				Percentage: rec.Percentage,
				Risk:       rec.Risk,
				Steps:      rec.Actions,
				Answers:    answered(outcome.Kind, rec.Category, answers),
			})
		}
	}
	return focus
}

// answered returns the category's answered questions, weakest first.
func answered(kind content.Kind, category string, answers scoring.Answers) []AnsweredQuestion {
	type scored struct {
		AnsweredQuestion
		gap int
	}
	var list []scored
	for _, q := range content.Questions(kind) {
		if q.Category != category {
			continue
		}
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		label := a.Value
		if o, ok := q.Option(a.Value); ok {
			label = o.Label
		}
		list = append(list, scored{AnsweredQuestion{Question: q.Text, Answer: label}, q.MaxOptionScore() - a.Score})
	}
	slices.SortStableFunc(list, func(a, b scored) int { return cmp.Compare(b.gap, a.gap) })
	out := make([]AnsweredQuestion, len(list))
	for i, s := range list {
		out[i] = s.AnsweredQuestion
	}
	return out
}

// Notice explains in one sentence why some tips fell back to the
// generic steps. It returns "" for a nil error.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	const tail = " Showing general steps."
	f, ok := llm.FailureOf(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The coach took too long to answer." + tail
	case !ok:
		return "Some personalized tips are unavailable." + tail
	case f == llm.RateLimited:
		return "The coach's provider is rate limiting requests; try again in a minute." + tail
	case f == llm.Rejected:
		return "The coach's provider rejected the request; check the API key and model." + tail
	case f == llm.Truncated:
		return "The coach's answer was cut off before it was complete." + tail
	case f == llm.Malformed:
		return "The coach's answer could not be read." + tail
	}
	return "Some personalized tips are unavailable." + tail
}
