package scoring

import (
	"slices"

	"github.com/abhisek/privcheck/internal/content"
)

// MaxOptionScore is the highest option score of the weighted variant.
const MaxOptionScore = content.AuditMaxScore

// Audit scores answers with the weighted variant. A question contributes
// optionScore*weight; a category's maximum is sum(weight)*MaxOptionScore
// over all of its questions, answered or not.
func Audit(questions []content.Question, answers Answers) AuditReport {
	var rep AuditReport
	bucket := make(map[string]int)

	for _, q := range questions {
		w := q.Weight
		if w <= 0 {
			w = 1
		}
		i, ok := bucket[q.Category]
		if !ok {
			i = len(rep.Categories)
			bucket[q.Category] = i
			rep.Categories = append(rep.Categories, CategoryReport{Category: q.Category})
		}
		c := &rep.Categories[i]
		c.Weight += w
		c.MaxScore += w * MaxOptionScore

		if a, ok := answers[q.ID]; ok {
			c.Score += clamp(a.Score, 0, MaxOptionScore) * w
		}
	}

	for i := range rep.Categories {
		c := &rep.Categories[i]
		c.Percentage = Percentage(c.Score, c.MaxScore)
		c.Risk = RiskFor(c.Percentage)
		rep.Score += c.Score
		rep.MaxScore += c.MaxScore
	}
	rep.Percentage = Percentage(rep.Score, rep.MaxScore)
	rep.Risk = RiskFor(rep.Percentage)
	rep.Recommendations = recommendations(rep.Categories)
	return rep
}

func recommendations(cats []CategoryReport) []Recommendation {
	var atRisk []CategoryReport
	for _, c := range cats {
		if c.Risk != RiskLow {
			atRisk = append(atRisk, c)
		}
	}
	slices.SortStableFunc(atRisk, func(a, b CategoryReport) int {
		return compareRatio(a.Score, a.MaxScore, b.Score, b.MaxScore)
	})

	recs := make([]Recommendation, 0, len(atRisk))
	for i, c := range atRisk {
		recs = append(recs, Recommendation{
			Priority:   i + 1,
			Category:   c.Category,
			Risk:       c.Risk,
			Percentage: c.Percentage,
			Actions:    content.Recommendations(c.Category),
		})
	}
	return recs
}
