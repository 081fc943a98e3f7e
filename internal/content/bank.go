package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

// bankFile mirrors the layout of questions.yaml.
type bankFile struct {
	Quick struct {
		Questions []Question `yaml:"questions"`
	} `yaml:"quick"`
	Audit struct {
		Categories []Category `yaml:"categories"`
		Questions  []Question `yaml:"questions"`
	} `yaml:"audit"`
}

// bank holds the parsed questionnaires with precomputed indices.
type bank struct {
	questions  map[Kind][]Question
	byID       map[Kind]map[string]int
	categories []Category
	catByName  map[string]int
}

// b is the package-level bank, set by init().
var b *bank

func init() {
	parsed, err := parseBank(questionsYAML)
	if err != nil {
		panic(fmt.Sprintf("content: %v", err))
	}
	b = parsed
}

// parseBank decodes and validates a bank document.
func parseBank(data []byte) (*bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	// Audit questions without an explicit weight inherit their category's.
	catWeight := make(map[string]int, len(f.Audit.Categories))
	for _, c := range f.Audit.Categories {
		catWeight[c.Name] = c.Weight
	}
	for i := range f.Audit.Questions {
		if f.Audit.Questions[i].Weight == 0 {
			f.Audit.Questions[i].Weight = catWeight[f.Audit.Questions[i].Category]
		}
	}

	if err := validateBank(f); err != nil {
		return nil, err
	}

	bk := &bank{
		questions: map[Kind][]Question{
			KindQuick: f.Quick.Questions,
			KindAudit: f.Audit.Questions,
		},
		byID:       make(map[Kind]map[string]int, 2),
		categories: f.Audit.Categories,
		catByName:  make(map[string]int, len(f.Audit.Categories)),
	}
	for kind, qs := range bk.questions {
		idx := make(map[string]int, len(qs))
		for i, q := range qs {
			idx[q.ID] = i
		}
		bk.byID[kind] = idx
	}
	for i, c := range bk.categories {
		bk.catByName[c.Name] = i
	}
	return bk, nil
}

// Questions returns the questions of a questionnaire in declaration order.
func Questions(kind Kind) []Question {
	qs := b.questions[kind]
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}

// GetQuestion returns a question by ID.
func GetQuestion(kind Kind, id string) (Question, error) {
	i, ok := b.byID[kind][id]
	if !ok {
		return Question{}, fmt.Errorf("question %q not found in %s", id, kind)
	}
	return b.questions[kind][i].clone(), nil
}

// AuditCategories returns the risk audit categories in display order.
func AuditCategories() []Category {
	out := make([]Category, len(b.categories))
	for i, c := range b.categories {
		c.Recommendations = append([]string(nil), c.Recommendations...)
		out[i] = c
	}
	return out
}

// Recommendations returns the remediation texts for an audit category.
func Recommendations(category string) []string {
	i, ok := b.catByName[category]
	if !ok {
		return nil
	}
	return append([]string(nil), b.categories[i].Recommendations...)
}

// QuestionCategories returns the distinct categories of a questionnaire,
// in first-seen order.
func QuestionCategories(kind Kind) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range b.questions[kind] {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
