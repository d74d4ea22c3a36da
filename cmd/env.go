package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/applog"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/config"
	"github.com/abhisek/revizio/internal/lessons"
	"github.com/abhisek/revizio/internal/llm"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/store"
)

// env is what every command needs: resolved configuration and a logger.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// loadEnv resolves configuration from flags, environment and file, then
// builds the logger it describes.
func loadEnv(cmd *cobra.Command) (*env, error) {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.Load(overrides(cmd), bootstrap)
	if err != nil {
		return nil, err
	}
	logger, closer, err := applog.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	slog.SetDefault(logger)
	return &env{cfg: cfg, logger: logger, closer: closer}, nil
}

func (e *env) openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.logger.Debug("store opened", slog.String("path", dbPath))
	return st, nil
}

func (e *env) catalog() (catalog.Catalog, error) {
	return e.cfg.Catalog(quizgen.ValidKind)
}

// lessonSource reads lessons from disk or over HTTP.
func (e *env) lessonSource() lessons.Source {
	if e.cfg.RemoteLessons() {
		return lessons.NewHTTPSource(e.cfg.Lessons, e.cfg.RequestTimeout)
	}
	return lessons.NewDirSource(e.cfg.Lessons)
}

// backend returns the AI backend selected by the configuration. A nil
// recorder disables LLM event logging.
func (e *env) backend(ctx context.Context, recorder llm.EventRecorder) (aiproxy.Backend, error) {
	if e.cfg.Backend == config.BackendProxy {
		client := aiproxy.NewClient(e.cfg.ProxyURL, e.cfg.RequestTimeout, aiproxy.WithLogger(e.logger))
		if err := client.CheckCompatible(ctx); err != nil {
			var incompatible *aiproxy.IncompatibleError
			if errors.As(err, &incompatible) {
				return nil, err
			}
			// An unreachable proxy may still come up; requests will report it.
			e.logger.Warn("proxy health check failed", slog.String("url", e.cfg.ProxyURL), slog.Any("error", err))
		}
		return client, nil
	}
	return e.llmBackend(ctx, recorder)
}

// llmBackend talks to an LLM provider directly. Dictation uses OpenAI's
// speech endpoint when a key is available.
func (e *env) llmBackend(ctx context.Context, recorder llm.EventRecorder) (*aiproxy.LLMBackend, error) {
	llmCfg, err := llm.Resolve()
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	if llmCfg.Timeout == 0 {
		llmCfg.Timeout = e.cfg.RequestTimeout
	}
	provider, err := llm.NewProvider(ctx, llmCfg, recorder, e.logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	var opts []aiproxy.LLMOption
	if key := llmCfg.SpeechKey(); key != "" {
		speaker, err := llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: key, BaseURL: llmCfg.OpenAI.BaseURL})
		if err != nil {
			e.logger.Warn("speech disabled", slog.Any("error", err))
		} else {
			opts = append(opts, aiproxy.WithSpeaker(speaker, "alloy"))
		}
	}
	e.logger.Info("llm backend ready", slog.String("provider", llmCfg.Provider), slog.String("model", provider.ModelID()))
	return aiproxy.NewLLMBackend(provider, opts...), nil
}

func (e *env) defaultKind() quizgen.Kind {
	k, err := quizgen.ParseKind(e.cfg.Quiz.DefaultKind)
	if err != nil {
		e.logger.Warn("unknown default kind", slog.String("kind", e.cfg.Quiz.DefaultKind))
		return quizgen.KindMixed
	}
	return k
}
