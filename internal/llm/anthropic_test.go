package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func anthropicReply(w http.ResponseWriter, stop string, texts ...string) {
	content := []map[string]any{}
	for _, t := range texts {
		content = append(content, map[string]any{"type": "text", "text": t})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     content,
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	})
}

func anthropicFailure(status int, kind string, header map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]any
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		anthropicReply(w, "end_turn", `{"kind":"true_false","prompt":"La Seine traverse Paris.","answer":true}`)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "Tu génères des quiz de révision.",
		Messages:  []Message{{Role: RoleUser, Content: "Génère une question."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
	if body["model"] != "claude-haiku-4-5" {
		t.Errorf("model sent = %v", body["model"])
	}
}

func TestAnthropicJoinsTextBlocks(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, "end_turn", "Bon paragraphe.", "Note : 7/10")
	})

	text, err := Complete(context.Background(), p, "", "Corrige ce texte.", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Bon paragraphe.\nNote : 7/10" {
		t.Fatalf("text = %q", text)
	}
}

func TestAnthropicEmptyReply(t *testing.T) {
	p := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		anthropicReply(w, "refusal")
	})

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 10})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicErrors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		p := newTestAnthropic(t, anthropicFailure(http.StatusTooManyRequests, "rate_limit_error", map[string]string{"Retry-After": "7"}))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 10})
		var rl *ErrRateLimit
		if !errors.As(err, &rl) {
			t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
		}
		if rl.RetryAfter != 7*time.Second {
			t.Errorf("RetryAfter = %v, want 7s", rl.RetryAfter)
		}
	})
	t.Run("bad key", func(t *testing.T) {
		p := newTestAnthropic(t, anthropicFailure(http.StatusUnauthorized, "authentication_error", nil))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 10})
		var auth *ErrAuth
		if !errors.As(err, &auth) || Transient(err) {
			t.Fatalf("expected permanent ErrAuth, got %T (%v)", err, err)
		}
	})
	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropic(t, anthropicFailure(http.StatusInternalServerError, "api_error", nil))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}, MaxTokens: 10})
		var unavail *ErrProviderUnavailable
		if !errors.As(err, &unavail) {
			t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
		}
	})
}

func TestAnthropicMessagesFoldSameRole(t *testing.T) {
	got := anthropicMessages([]Message{
		{Role: RoleUser, Content: "Leçon"},
		{Role: RoleUser, Content: "Consigne"},
		{Role: RoleAssistant, Content: "{}"},
		{Role: RoleUser, Content: "Encore"},
	})
	if len(got) != 3 {
		t.Fatalf("got %d turns, want 3", len(got))
	}
	if len(got[0].Content) != 2 {
		t.Errorf("first turn has %d blocks, want 2", len(got[0].Content))
	}
}

func TestRetryAfterHeader(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	if retryAfter(resp) != 0 || retryAfter(nil) != 0 {
		t.Error("missing header should give 0")
	}
	resp.Header.Set("Retry-After", "3")
	if got := retryAfter(resp); got != 3*time.Second {
		t.Errorf("seconds form = %v", got)
	}
	resp.Header.Set("Retry-After", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	if got := retryAfter(resp); got < 59*time.Minute {
		t.Errorf("date form = %v", got)
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	for in, want := range map[string]string{
		"claude-sonnet":            "claude-sonnet-4-5",
		"claude-haiku":             "claude-haiku-4-5",
		"claude-sonnet-4-20250514": "claude-sonnet-4-20250514",
	} {
		if got := resolveModel(in, anthropicModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}
