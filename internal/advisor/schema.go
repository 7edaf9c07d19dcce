package advisor

import "github.com/novakid/placement/internal/llm"

// ReportSchema defines the JSON schema the Advisory Analyzer's response
// must conform to. It mirrors the PlacementReport shape so the LLM's
// structured output can be unmarshaled directly into it.
var ReportSchema = &llm.Schema{
	Name:        "placement-report",
	Description: "A learner's end-of-test proficiency placement, skill breakdown, and recommendations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"placement": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"novakid_level": map[string]any{
						"type":        "integer",
						"minimum":     0,
						"maximum":     5,
						"description": "The learner's placement level, 0 (pre-A1) through 5 (B2)",
					},
					"confidence": map[string]any{
						"type":    "number",
						"minimum": 0.0,
						"maximum": 1.0,
					},
					"cefr_equivalent": map[string]any{
						"type": "string",
					},
					"level_justification": map[string]any{
						"type":        "string",
						"description": "One or two sentences explaining why this level was chosen",
					},
				},
				"required":             []any{"novakid_level", "confidence", "cefr_equivalent", "level_justification"},
				"additionalProperties": false,
			},
			"skill_analysis": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"vocabulary":    skillScoreProperty(),
					"pronunciation": skillScoreProperty(),
					"grammar":       skillScoreProperty(),
				},
				"required":             []any{"vocabulary", "pronunciation", "grammar"},
				"additionalProperties": false,
			},
			"recommendations": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"immediate_focus":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"strengths_to_build_on":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"suggested_starting_point": map[string]any{"type": "string"},
					"estimated_progress":       map[string]any{"type": "string"},
				},
				"required":             []any{"immediate_focus", "strengths_to_build_on", "suggested_starting_point", "estimated_progress"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"placement", "skill_analysis", "recommendations"},
		"additionalProperties": false,
	},
}

func skillScoreProperty() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":    map[string]any{"type": []any{"number", "null"}, "minimum": 0.0, "maximum": 1.0},
			"evidence": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"score", "evidence"},
		"additionalProperties": false,
	}
}
