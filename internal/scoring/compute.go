package scoring

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/abhisek/privcheck/internal/content"
)

const (
	// MaxQuestionScore is the fixed per-question maximum of the simple variant.
	MaxQuestionScore = content.QuickMaxScore

	// MaxActionItems caps the action plan length.
	MaxActionItems = 3
)

// genericSteps are attached to every action item.
var genericSteps = []string{
	"Review the questions in this category where you picked a weaker option.",
	"Change one setting or habit this week.",
	"Retake the check in a month to see what moved.",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases a category and replaces whitespace runs with '-'.
func Slug(category string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(category), "-")
}

// Compute scores answers with the simple variant. Only answered questions
// count towards MaxScore. Answers for unknown questions are ignored.
func Compute(questions []content.Question, answers Answers) Result {
	var res Result
	bucket := make(map[string]int)

	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		s := clamp(a.Score, 0, MaxQuestionScore)
		res.Score += s
		res.MaxScore += MaxQuestionScore

		i, ok := bucket[q.Category]
		if !ok {
			i = len(res.Categories)
			bucket[q.Category] = i
			res.Categories = append(res.Categories, CategoryScore{Category: q.Category})
		}
		res.Categories[i].Score += s
		res.Categories[i].MaxScore += MaxQuestionScore
	}

	res.Percentage = Percentage(res.Score, res.MaxScore)
	res.UserLevel = LevelFor(res.Percentage)
	res.ActionPlan = actionPlan(res.Categories)
	return res
}

func actionPlan(cats []CategoryScore) []ActionItem {
	ranked := slices.Clone(cats)
	slices.SortStableFunc(ranked, func(a, b CategoryScore) int {
		return compareRatio(a.Score, a.MaxScore, b.Score, b.MaxScore)
	})

	n := min(len(ranked), MaxActionItems)
	items := make([]ActionItem, 0, n)
	for i, c := range ranked[:n] {
		items = append(items, ActionItem{
			Priority: i + 1,
			Category: c.Category,
			Title:    fmt.Sprintf("Improve your %s", c.Category),
			Steps:    slices.Clone(genericSteps),
			Resource: "/resources/" + Slug(c.Category),
		})
	}
	return items
}

// compareRatio orders aScore/aMax against bScore/bMax without floating
// point. A zero maximum sorts as ratio 0.
func compareRatio(aScore, aMax, bScore, bMax int) int {
	if aMax <= 0 {
		aScore, aMax = 0, 1
	}
	if bMax <= 0 {
		bScore, bMax = 0, 1
	}
	l, r := aScore*bMax, bScore*aMax
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}
