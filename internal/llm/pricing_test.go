package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"anthropic/claude-haiku-4.5", &ModelCost{1, 5}},
		{"google/gemini-2.0-flash-exp:free", &ModelCost{0, 0}},
		{"GPT-4O", &ModelCost{2.5, 10}},
		{"mock", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
		case tt.want != nil && got == nil:
			t.Errorf("LookupCost(%q) = nil, want %+v", tt.model, *tt.want)
		case tt.want != nil && *got != *tt.want:
			t.Errorf("LookupCost(%q) = %+v, want %+v", tt.model, *got, *tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	// A typical correction: 1500 tokens in, 300 out.
	got := c.Cost(1500, 300)
	if math.Abs(got-0.003) > 1e-9 {
		t.Errorf("Cost = %v, want 0.003", got)
	}
}
