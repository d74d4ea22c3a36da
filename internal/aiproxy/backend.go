// Package aiproxy talks to the AI service that generates quiz items,
// corrects free-text answers and reads dictations aloud. It provides an
// HTTP client for the hosted proxy, a direct LLM-backed implementation,
// and a server exposing either one over the same contract.
package aiproxy

import (
	"context"
	"errors"
	"fmt"
)

// ProtocolVersion is the proxy contract version this client speaks.
// Servers with a different major version are rejected by CheckCompatible.
const ProtocolVersion = "v1.0.0"

// PromptSpec is a generation request: the system and user prompts plus
// the number of items asked for.
type PromptSpec struct {
	System string
	User   string
	Count  int
}

// Combined joins System and User into the single prompt field older
// proxies expect.
func (p PromptSpec) Combined() string {
	switch {
	case p.System == "":
		return p.User
	case p.User == "":
		return p.System
	}
	return p.System + "\n\n" + p.User
}

// Backend is the AI boundary used by the quiz.
type Backend interface {
	// Generate returns the raw generated text, expected to hold quiz JSON.
	Generate(ctx context.Context, spec PromptSpec) (string, error)

	// Correct returns the correction prose for a learner answer.
	Correct(ctx context.Context, prompt string) (string, error)

	// Speak returns audio for text.
	Speak(ctx context.Context, text string) ([]byte, error)
}

// ErrTTSUnavailable is returned by backends that cannot synthesize speech.
var ErrTTSUnavailable = errors.New("text-to-speech is not available")

// GenerationAPIError reports a failed generation call: a transport error
// (Status 0) or a non-2xx response. Detail carries the server's "error"
// field when present.
type GenerationAPIError struct {
	Status int
	Detail string
	Err    error
}

func (e *GenerationAPIError) Error() string {
	return apiErrorString("generation", e.Status, e.Detail, e.Err)
}

func (e *GenerationAPIError) Unwrap() error { return e.Err }

// GenerationPayloadError reports a successful generation call whose body
// holds no usable content.
type GenerationPayloadError struct {
	Body string
}

func (e *GenerationPayloadError) Error() string {
	return fmt.Sprintf("generation: unusable response payload: %s", truncate(e.Body, 200))
}

// CorrectionAPIError reports a failed correction call.
type CorrectionAPIError struct {
	Status int
	Detail string
	Err    error
}

func (e *CorrectionAPIError) Error() string {
	return apiErrorString("correction", e.Status, e.Detail, e.Err)
}

func (e *CorrectionAPIError) Unwrap() error { return e.Err }

// TTSAPIError reports a failed text-to-speech call.
type TTSAPIError struct {
	Status int
	Err    error
}

func (e *TTSAPIError) Error() string {
	return apiErrorString("tts", e.Status, "", e.Err)
}

func (e *TTSAPIError) Unwrap() error { return e.Err }

// IncompatibleError is returned when the server speaks another major
// protocol version.
type IncompatibleError struct {
	Server string
	Client string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("proxy version %s is not compatible with client version %s", e.Server, e.Client)
}

func apiErrorString(op string, status int, detail string, err error) string {
	msg := op + " API error"
	if status > 0 {
		msg = fmt.Sprintf("%s (%d)", msg, status)
	}
	if detail != "" {
		msg += ": " + detail
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
