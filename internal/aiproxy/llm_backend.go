package aiproxy

import (
	"context"

	"github.com/abhisek/revizio/internal/llm"
)

const correctionSystemPrompt = `Tu es un professeur bienveillant qui corrige les réponses d'élèves de collège.
Suis la consigne de correction donnée. Commence par un commentaire constructif,
puis termine par une ligne de la forme "Note : X/N" quand une note est demandée.`

// Speaker synthesizes speech. *llm.OpenAIProvider implements it.
type Speaker interface {
	Speech(ctx context.Context, text, voice string) ([]byte, error)
}

// LLMBackend serves the Backend contract directly from an LLM provider.
type LLMBackend struct {
	provider  llm.Provider
	speaker   Speaker
	voice     string
	maxTokens int
}

// LLMOption configures an LLMBackend.
type LLMOption func(*LLMBackend)

// WithSpeaker enables Speak.
func WithSpeaker(s Speaker, voice string) LLMOption {
	return func(b *LLMBackend) {
		b.speaker = s
		b.voice = voice
	}
}

// WithMaxTokens bounds generation and correction replies.
func WithMaxTokens(n int) LLMOption {
	return func(b *LLMBackend) { b.maxTokens = n }
}

// NewLLMBackend wraps provider. Without WithSpeaker, Speak returns
// ErrTTSUnavailable.
func NewLLMBackend(provider llm.Provider, opts ...LLMOption) *LLMBackend {
	b := &LLMBackend{provider: provider, maxTokens: 4096}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Generate asks the model for quiz JSON. The reply is returned unparsed.
func (b *LLMBackend) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGeneration)
	text, err := llm.Complete(ctx, b.provider, spec.System, spec.User, b.maxTokens)
	if err != nil {
		return "", &GenerationAPIError{Err: err}
	}
	if text == "" {
		return "", &GenerationPayloadError{}
	}
	return text, nil
}

// Correct asks the model to grade a learner answer.
func (b *LLMBackend) Correct(ctx context.Context, prompt string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCorrection)
	text, err := llm.Complete(ctx, b.provider, correctionSystemPrompt, prompt, b.maxTokens)
	if err != nil {
		return "", &CorrectionAPIError{Err: err}
	}
	if text == "" {
		return "", &CorrectionAPIError{Detail: "empty correction"}
	}
	return text, nil
}

// Speak synthesizes text through the configured speaker.
func (b *LLMBackend) Speak(ctx context.Context, text string) ([]byte, error) {
	if b.speaker == nil {
		return nil, ErrTTSUnavailable
	}
	audio, err := b.speaker.Speech(ctx, text, b.voice)
	if err != nil {
		return nil, &TTSAPIError{Err: err}
	}
	return audio, nil
}
