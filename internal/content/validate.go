package content

import (
	"fmt"
	"strings"
)

const (
	// QuickMaxScore is the highest option score of a quick check question.
	QuickMaxScore = 5
	// AuditMaxScore is the highest option score of a risk audit question.
	AuditMaxScore = 10
)

// validateBank performs structural checks on a decoded bank.
// Returns a combined error describing all problems found, or nil if valid.
func validateBank(f bankFile) error {
	var errs []string

	errs = append(errs, validateQuestions(KindQuick, f.Quick.Questions, QuickMaxScore)...)
	errs = append(errs, validateQuestions(KindAudit, f.Audit.Questions, AuditMaxScore)...)

	cats := make(map[string]bool, len(f.Audit.Categories))
	for _, c := range f.Audit.Categories {
		if cats[c.Name] {
			errs = append(errs, fmt.Sprintf("duplicate audit category %q", c.Name))
		}
		cats[c.Name] = true
		if c.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("audit category %q has non-positive weight %d", c.Name, c.Weight))
		}
	}
	for _, q := range f.Audit.Questions {
		if !cats[q.Category] {
			errs = append(errs, fmt.Sprintf("audit question %q references unknown category %q", q.ID, q.Category))
		}
		if q.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("audit question %q has non-positive weight", q.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateQuestions(kind Kind, qs []Question, maxScore int) []string {
	var errs []string
	if len(qs) == 0 {
		errs = append(errs, fmt.Sprintf("%s: no questions", kind))
	}

	ids := make(map[string]bool, len(qs))
	for _, q := range qs {
		if q.ID == "" {
			errs = append(errs, fmt.Sprintf("%s: question with empty ID", kind))
		}
		if ids[q.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate question ID %q", kind, q.ID))
		}
		ids[q.ID] = true

		if q.Category == "" {
			errs = append(errs, fmt.Sprintf("%s: question %q has no category", kind, q.ID))
		}
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("%s: question %q needs at least 2 options", kind, q.ID))
		}

		values := make(map[string]bool, len(q.Options))
		top := 0
		for _, o := range q.Options {
			if values[o.Value] {
				errs = append(errs, fmt.Sprintf("%s: question %q has duplicate option %q", kind, q.ID, o.Value))
			}
			values[o.Value] = true
			if o.Score < 0 || o.Score > maxScore {
				errs = append(errs, fmt.Sprintf("%s: question %q option %q score %d outside 0..%d", kind, q.ID, o.Value, o.Score, maxScore))
			}
			if o.Score > top {
				top = o.Score
			}
		}
		if len(q.Options) > 0 && top != maxScore {
			errs = append(errs, fmt.Sprintf("%s: question %q has no option worth %d", kind, q.ID, maxScore))
		}
	}
	return errs
}
