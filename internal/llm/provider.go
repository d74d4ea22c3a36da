package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is one LLM vendor. Quiz generation calls it with a Schema and
// gets validated JSON back; correction calls it without one and gets
// prose.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, which may differ from the
	// Response.Model that actually served a request.
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema constrains the reply. Nil asks for free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the reply must satisfy. Name is sent to
// vendors that label schemas and keys the compiled-schema cache, so it
// must be unique per Definition, e.g. "quiz-item-essay".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is validated JSON for schema requests and the raw reply
	// otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is one of "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as a trimmed string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Complete runs a single-turn, free-text request.
func Complete(ctx context.Context, p Provider, system, user string, maxTokens int) (string, error) {
	resp, err := p.Generate(ctx, Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		return "", &ErrMaxTokensExceeded{Content: resp.Content}
	}
	return resp.Text(), nil
}
