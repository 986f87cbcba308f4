package coach

import "github.com/abhisek/learnpath/internal/llm"

// TipSchema defines the JSON schema for a study tip.
var TipSchema = &llm.Schema{
	Name:        "study-tip",
	Description: "A short, actionable study tip for one roadmap checklist item",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "2-4 sentences on how to approach the item",
			},
			"resources": map[string]any{
				"type":        "array",
				"maxItems":    3,
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 well-known resources, by name",
			},
		},
		"required":             []any{"tip", "resources"},
		"additionalProperties": false,
	},
}
