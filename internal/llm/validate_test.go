package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func itemSchema() *Schema {
	return &Schema{
		Name:        "test-quiz-item",
		Description: "One quiz item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind":    map[string]any{"type": "string", "enum": []any{"multiple_choice", "true_false"}},
				"prompt":  map[string]any{"type": "string", "minLength": 1},
				"points":  map[string]any{"type": "number", "minimum": 0},
				"options": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []any{"kind", "prompt"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"kind":"multiple_choice","prompt":"Capitale ?","points":1,"options":["Paris","Lyon"]}`, false},
		{"optional fields omitted", `{"kind":"true_false","prompt":"La Loire est un fleuve."}`, false},
		{"missing required", `{"kind":"true_false"}`, true},
		{"wrong type", `{"kind":"true_false","prompt":"x","points":"un"}`, true},
		{"negative points", `{"kind":"true_false","prompt":"x","points":-2}`, true},
		{"unknown kind", `{"kind":"crossword","prompt":"x"}`, true},
		{"wrong array item type", `{"kind":"multiple_choice","prompt":"x","options":[1,2]}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(itemSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`Bon travail. Note : 8/10`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateValue_DecodedInput(t *testing.T) {
	var v any
	raw := json.RawMessage(`{"kind":"true_false","prompt":"Le Rhin traverse Berlin.","points":2}`)
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatal(err)
	}
	if err := ValidateValue(itemSchema(), v, raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	bad := map[string]any{"kind": "true_false"}
	err := ValidateValue(itemSchema(), bad, nil)
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}
