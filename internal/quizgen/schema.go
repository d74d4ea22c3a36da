package quizgen

import (
	"github.com/abhisek/revizio/internal/llm"
	"github.com/abhisek/revizio/internal/quiz"
)

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "minLength": 1, "description": desc}
}

func strList(desc string, minItems int) map[string]any {
	s := map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string", "minLength": 1},
		"description": desc,
	}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	return s
}

var points = map[string]any{"type": "number", "minimum": 0, "description": "Points awarded for a correct answer"}

func itemSchema(name, desc string, props map[string]any, required ...string) *llm.Schema {
	props["type"] = map[string]any{"type": "string"}
	return &llm.Schema{
		Name:        name,
		Description: desc,
		Definition: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   append([]any{"type"}, toAny(required)...),
		},
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// itemSchemas validate one normalized item per kind.
var itemSchemas = map[quiz.Kind]*llm.Schema{
	quiz.KindMultipleChoice: itemSchema("quiz-multiple-choice", "Multiple-choice question",
		map[string]any{
			"question": str("Question text"),
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 1},
				"minItems": 3,
				"maxItems": 4,
			},
			"answer":      str("The correct option, verbatim"),
			"explanation": map[string]any{"type": "string"},
			"points":      points,
		}, "question", "options", "answer"),

	quiz.KindTrueFalse: itemSchema("quiz-true-false", "True or false statement",
		map[string]any{
			"question":    str("Statement to judge"),
			"answer":      map[string]any{"type": "boolean"},
			"explanation": map[string]any{"type": "string"},
			"points":      points,
		}, "question", "answer"),

	quiz.KindShortAnswer: itemSchema("quiz-short-answer", "Question answered in a few words",
		map[string]any{
			"question":                str("Question text"),
			"expected":                map[string]any{"type": "string"},
			"correction_instructions": map[string]any{"type": "string"},
			"points":                  points,
		}, "question"),

	quiz.KindEssay: itemSchema("quiz-essay", "Argued paragraph topic",
		map[string]any{
			"question":                str("Essay topic"),
			"coverage_points":         strList("What a good paragraph covers", 0),
			"correction_instructions": map[string]any{"type": "string"},
		}, "question"),

	quiz.KindSpotTheError: itemSchema("quiz-spot-the-error", "Statement containing one error",
		map[string]any{
			"statement":               str("Statement with exactly one error"),
			"correction":              map[string]any{"type": "string"},
			"correction_instructions": map[string]any{"type": "string"},
			"points":                  points,
		}, "statement"),

	quiz.KindDictation: itemSchema("quiz-dictation", "Text read aloud and transcribed",
		map[string]any{
			"text":   str("Text to dictate"),
			"points": points,
		}, "text"),
}
