package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/privcheck/internal/content"
)

func wq(id, category string, weight int) content.Question {
	return content.Question{
		ID:       id,
		Category: category,
		Weight:   weight,
		Options: []content.Option{
			{Value: "best", Score: 10, Level: "low"},
			{Value: "mid", Score: 5, Level: "medium"},
			{Value: "worst", Score: 0, Level: "high"},
		},
	}
}

func TestAudit_WeightedAggregation(t *testing.T) {
	qs := []content.Question{
		wq("a1", "A", 3),
		wq("a2", "A", 1),
		wq("b1", "B", 2),
	}
	answers := Answers{
		"a1": ans("a1", 10),
		"a2": ans("a2", 0),
		"b1": ans("b1", 5),
	}

	rep := Audit(qs, answers)
	require.Len(t, rep.Categories, 2)

	a := rep.Categories[0]
	assert.Equal(t, "A", a.Category)
	assert.Equal(t, 4, a.Weight)
	assert.Equal(t, 30, a.Score)
	assert.Equal(t, 40, a.MaxScore)
	assert.Equal(t, 75, a.Percentage)
	assert.Equal(t, RiskLow, a.Risk)

	b := rep.Categories[1]
	assert.Equal(t, 10, b.Score)
	assert.Equal(t, 20, b.MaxScore)
	assert.Equal(t, 50, b.Percentage)
	assert.Equal(t, RiskMedium, b.Risk)

	assert.Equal(t, 40, rep.Score)
	assert.Equal(t, 60, rep.MaxScore)
	assert.Equal(t, 67, rep.Percentage)
	assert.Equal(t, RiskMedium, rep.Risk)

	require.Len(t, rep.Recommendations, 1)
	assert.Equal(t, "B", rep.Recommendations[0].Category)
	assert.Equal(t, 1, rep.Recommendations[0].Priority)
}

func TestAudit_UnansweredCountsAgainstCategory(t *testing.T) {
	qs := []content.Question{wq("a1", "A", 1), wq("a2", "A", 1)}
	rep := Audit(qs, Answers{"a1": ans("a1", 10)})

	assert.Equal(t, 10, rep.Score)
	assert.Equal(t, 20, rep.MaxScore)
	assert.Equal(t, 50, rep.Percentage)
}

func TestAudit_NoAnswers(t *testing.T) {
	rep := Audit(content.Questions(content.KindAudit), Answers{})

	assert.Equal(t, 0, rep.Score)
	assert.Equal(t, 0, rep.Percentage)
	assert.Equal(t, RiskHigh, rep.Risk)
	assert.Len(t, rep.Recommendations, len(content.AuditCategories()))
	for _, r := range rep.Recommendations {
		assert.NotEmpty(t, r.Actions, "category %s", r.Category)
	}
}

func TestAudit_AllMaximal(t *testing.T) {
	qs := content.Questions(content.KindAudit)
	answers := Answers{}
	for _, question := range qs {
		answers[question.ID] = ans(question.ID, MaxOptionScore)
	}

	rep := Audit(qs, answers)
	assert.Equal(t, 100, rep.Percentage)
	assert.Equal(t, RiskLow, rep.Risk)
	assert.Empty(t, rep.Recommendations)
}

func TestAudit_RecommendationsStable(t *testing.T) {
	qs := []content.Question{wq("x", "X", 1), wq("y", "Y", 2), wq("z", "Z", 1)}
	answers := Answers{"x": ans("x", 5), "y": ans("y", 5), "z": ans("z", 0)}

	rep := Audit(qs, answers)
	require.Len(t, rep.Recommendations, 3)
	assert.Equal(t, "Z", rep.Recommendations[0].Category)
	assert.Equal(t, "X", rep.Recommendations[1].Category)
	assert.Equal(t, "Y", rep.Recommendations[2].Category)
}

func TestAudit_ClampsScores(t *testing.T) {
	qs := []content.Question{wq("a", "A", 2)}
	rep := Audit(qs, Answers{"a": ans("a", 25), "ghost": ans("ghost", 10)})

	assert.Equal(t, 20, rep.Score)
	assert.Equal(t, 20, rep.MaxScore)
}

func TestEvaluate(t *testing.T) {
	quick := Evaluate(content.KindQuick, Answers{"password-reuse": ans("password-reuse", 5)})
	require.NotNil(t, quick.Result)
	assert.Nil(t, quick.Audit)
	assert.Equal(t, 100, quick.Percentage())
	assert.Equal(t, "advanced", quick.Rating())

	audit := Evaluate(content.KindAudit, Answers{})
	require.NotNil(t, audit.Audit)
	assert.Nil(t, audit.Result)
	assert.Equal(t, "high", audit.Rating())
}
