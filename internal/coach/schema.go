package coach

import "github.com/abhisek/privcheck/internal/llm"

// TipsSchema defines the JSON schema for the tips of one category.
var TipsSchema = &llm.Schema{
	Name:        "privacy-tips",
	Description: "Concrete privacy improvements for one category of a self-assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "string",
					"description": "One actionable step, imperative mood, at most 25 words",
					"minLength":   1,
				},
				"minItems":    1,
				"maxItems":    MaxTips,
				"description": "Tips ordered by impact, most impactful first",
			},
		},
		"required":             []any{"tips"},
		"additionalProperties": false,
	},
}
