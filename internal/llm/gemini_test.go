package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema_QuizItem(t *testing.T) {
	def := itemSchema().Definition
	def["properties"].(map[string]any)["options"] = map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string", "minLength": 1},
		"minItems": 3,
		"maxItems": 4,
	}
	def["properties"].(map[string]any)["points"] = map[string]any{"type": "number", "minimum": 0}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	opts := schema.Properties["options"]
	if opts == nil || opts.Type != genai.TypeArray {
		t.Fatalf("options = %+v", opts)
	}
	if opts.MinItems == nil || *opts.MinItems != 3 || opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Errorf("options bounds = %v/%v", opts.MinItems, opts.MaxItems)
	}
	if opts.Items.MinLength == nil || *opts.Items.MinLength != 1 {
		t.Errorf("items minLength = %v", opts.Items.MinLength)
	}
	if pts := schema.Properties["points"]; pts.Minimum == nil || *pts.Minimum != 0 {
		t.Errorf("points minimum = %v", pts.Minimum)
	}
}

func TestBuildGeminiSchema_DecodedJSON(t *testing.T) {
	// Values decoded from JSON arrive as []any and float64.
	def := map[string]any{
		"type":     []any{"array", "null"},
		"items":    map[string]any{"type": "string", "enum": []any{"vrai", "faux"}},
		"minItems": float64(1),
	}
	schema := buildGeminiSchema(def)
	if schema.Type != genai.TypeArray {
		t.Errorf("type = %s, want ARRAY", schema.Type)
	}
	if schema.Nullable == nil || !*schema.Nullable {
		t.Error("expected nullable")
	}
	if len(schema.Items.Enum) != 2 {
		t.Errorf("enum = %v", schema.Items.Enum)
	}
	if schema.MinItems == nil || *schema.MinItems != 1 {
		t.Errorf("minItems = %v", schema.MinItems)
	}
}

func TestGeminiConfig(t *testing.T) {
	req := Request{System: "Corrige.", MaxTokens: 512}

	cfg := geminiConfig(req, "gemini-2.5-flash")
	if cfg.ThinkingConfig == nil || *cfg.ThinkingConfig.ThinkingBudget != 0 {
		t.Error("free-text flash requests should disable thinking")
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "Corrige." {
		t.Error("system instruction not set")
	}

	req.Schema = itemSchema()
	cfg = geminiConfig(req, "gemini-2.5-flash")
	if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
		t.Error("schema requests should ask for JSON")
	}
	if cfg.ThinkingConfig != nil {
		t.Error("schema requests keep the default thinking budget")
	}
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", genai.APIError{Code: 403}, func(err error) bool {
			var e *ErrAuth
			return errors.As(err, &e)
		}},
		{"rate limit", genai.APIError{Code: 429}, func(err error) bool {
			var e *ErrRateLimit
			return errors.As(err, &e)
		}},
		{"server", genai.APIError{Code: 503}, func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
		{"transport", errors.New("dial tcp: refused"), func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		if got := mapGeminiError(tt.err); !tt.check(got) {
			t.Errorf("%s: mapped to %T", tt.name, got)
		}
	}
}

func TestGeminiStopReason(t *testing.T) {
	if geminiStopReason(genai.FinishReasonMaxTokens) != "max_tokens" {
		t.Error("MAX_TOKENS should map to max_tokens")
	}
	if geminiStopReason(genai.FinishReasonSafety) != "error" {
		t.Error("SAFETY should map to error")
	}
	if geminiStopReason(genai.FinishReasonStop) != "end" {
		t.Error("STOP should map to end")
	}
}
