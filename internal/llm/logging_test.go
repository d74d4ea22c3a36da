package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/revizio/internal/store"
)

type recorderStub struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recorderStub) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 4},
	})
	rec := &recorderStub{}
	p := WithLogging(mock, rec, nil)

	ctx := WithPurpose(context.Background(), "quiz-generation")
	_, err := p.Generate(ctx, Request{
		System:   "Génère des questions.",
		Messages: []Message{{Role: RoleUser, Content: "Leçon : les aires."}},
		Schema:   itemSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Purpose != "quiz-generation" || !ev.Success {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nGénère des questions.") ||
		!strings.Contains(ev.RequestBody, "[schema: test-quiz-item]") {
		t.Errorf("request body not serialized:\n%s", ev.RequestBody)
	}
	if ev.ResponseBody != `{"questions":[]}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRecorderError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	rec := &recorderStub{err: errors.New("disk full")}
	p := WithLogging(mock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("expected one failed event, got %+v", rec.events)
	}
	if rec.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", rec.events[0].Purpose)
	}
}

func TestLogging_NilRecorder(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`ok`)})
	p := WithLogging(mock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLogging_ProviderName(t *testing.T) {
	rec := &recorderStub{}
	p := WithLogging(NewMockProvider(MockText("ok")), rec, nil)

	ctx := WithSession(context.Background(), "sess-1")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.events[0].Provider; got != "mock" {
		t.Errorf("provider = %q, want mock", got)
	}

	or, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "x/y"})
	if err != nil {
		t.Fatal(err)
	}
	if got := providerName(or); got != "openrouter" {
		t.Errorf("providerName(openrouter) = %q", got)
	}
}
