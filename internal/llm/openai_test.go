package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func chatReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func openAIFailure(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "error", "message": http.StatusText(status)},
		})
	}
}

func TestOpenAIGenerate(t *testing.T) {
	p := newTestOpenAI(t, chatReply(`{"kind":"multiple_choice","prompt":"Capitale de la France ?","options":["Paris","Lyon","Nice"],"answer":"Paris"}`, "stop"))
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("friendly name not resolved: %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), Request{
		System:    "Tu génères des quiz de révision.",
		Messages:  []Message{{Role: RoleUser, Content: "Génère un QCM."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestOpenAIStopReasons(t *testing.T) {
	for finish, want := range map[string]string{"stop": "end", "length": "max_tokens", "content_filter": "error"} {
		p := newTestOpenAI(t, chatReply("Note : 3/4", finish))
		resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if err != nil {
			t.Fatalf("%s: %v", finish, err)
		}
		if resp.StopReason != want {
			t.Errorf("%s: stop reason = %q, want %q", finish, resp.StopReason, want)
		}
	}
}

func TestOpenAIEmptyCompletion(t *testing.T) {
	p := newTestOpenAI(t, chatReply("", "stop"))
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestOpenAIErrors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusUnauthorized, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		p := newTestOpenAI(t, openAIFailure(tt.status))
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if !tt.check(err) {
			t.Errorf("status %d mapped to %T (%v)", tt.status, err, err)
		}
	}
}

func TestOpenAIResponseFormatStrict(t *testing.T) {
	open, err := openAIResponseFormat(&Schema{Name: "open", Definition: map[string]any{"type": "object"}})
	if err != nil {
		t.Fatal(err)
	}
	if open.JSONSchema.Strict {
		t.Error("schema without additionalProperties should not be strict")
	}
	closed, _ := openAIResponseFormat(&Schema{Name: "closed", Definition: map[string]any{"type": "object", "additionalProperties": false}})
	if !closed.JSONSchema.Strict {
		t.Error("closed schema should be strict")
	}
}

func TestOpenAISpeech(t *testing.T) {
	var body map[string]any
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-fake-mp3"))
	})

	audio, err := p.Speech(context.Background(), "Le chat dort", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "ID3-fake-mp3" {
		t.Fatalf("audio = %q", audio)
	}
	if body["input"] != "Le chat dort" || body["voice"] != "alloy" {
		t.Errorf("request body = %v", body)
	}
}

func TestOpenAISpeechError(t *testing.T) {
	p := newTestOpenAI(t, openAIFailure(http.StatusServiceUnavailable))
	_, err := p.Speech(context.Background(), "Bonjour", "nova")
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}
