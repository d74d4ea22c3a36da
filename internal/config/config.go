// Package config resolves revizio's settings from defaults, an optional
// JSON file, REVIZIO_* environment variables and command-line flags, in
// increasing priority.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/revizio/internal/catalog"
)

// Backend names.
const (
	BackendProxy = "proxy"
	BackendLLM   = "llm"
)

const (
	DefaultProxyURL   = "https://cle-api.onrender.com"
	DefaultLessons    = "matieres"
	DefaultConfigFile = "config.json"
)

// Config holds every runtime setting.
type Config struct {
	Backend  string
	ProxyURL string

	// Lessons is a directory or an http(s) base URL.
	Lessons string

	CatalogFile string
	DBPath      string
	LogFile     string
	LogLevel    string
	AudioPlayer string

	RequestTimeout time.Duration
	Quiz           QuizConfig

	// catalog is the "catalog" key of the config file, if any.
	catalog json.RawMessage
}

// QuizConfig holds quiz tunables.
type QuizConfig struct {
	DefaultKind        string
	QuestionsPerLesson int
	EssayMinLen        int
	ShortMinLen        int
	MaxReplays         int
	Shuffle            bool
}

// Overrides are values given on the command line. Empty fields are ignored.
type Overrides struct {
	ConfigFile string
	DBPath     string
	Catalog    string
	Lessons    string
	ProxyURL   string
	Backend    string
	LogFile    string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:        BackendProxy,
		ProxyURL:       DefaultProxyURL,
		Lessons:        DefaultLessons,
		LogLevel:       "info",
		RequestTimeout: 60 * time.Second,
		Quiz: QuizConfig{
			DefaultKind:        "mixed",
			QuestionsPerLesson: 3,
			EssayMinLen:        50,
			ShortMinLen:        3,
			MaxReplays:         3,
		},
	}
}

// fileConfig is the on-disk shape. Pointers distinguish unset from zero.
type fileConfig struct {
	Backend            *string         `json:"backend"`
	ProxyURL           *string         `json:"proxy_url"`
	Lessons            *string         `json:"lessons"`
	LogLevel           *string         `json:"log_level"`
	AudioPlayer        *string         `json:"audio_player"`
	RequestTimeout     *string         `json:"request_timeout"`
	DefaultKind        *string         `json:"default_kind"`
	QuestionsPerLesson *int            `json:"questions_per_lesson"`
	EssayMinLen        *int            `json:"essay_min_length"`
	ShortMinLen        *int            `json:"short_min_length"`
	MaxReplays         *int            `json:"max_replays"`
	Shuffle            *bool           `json:"shuffle"`
	Catalog            json.RawMessage `json:"catalog"`
}

// Load resolves the configuration. A missing or malformed config file
// is logged and skipped. The returned error reports invalid final values.
func Load(o Overrides, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Default()

	path := firstNonEmpty(o.ConfigFile, os.Getenv("REVIZIO_CONFIG"), DefaultConfigFile)
	if err := cfg.applyFile(path); err != nil {
		// The default file is optional; an explicit one should exist.
		if !errors.Is(err, fs.ErrNotExist) || path != DefaultConfigFile {
			logger.Warn("config file ignored", slog.String("path", path), slog.Any("error", err))
		}
	}

	cfg.applyEnv(logger)
	cfg.applyOverrides(o)

	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	setString(&c.Backend, f.Backend)
	setString(&c.ProxyURL, f.ProxyURL)
	setString(&c.Lessons, f.Lessons)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.AudioPlayer, f.AudioPlayer)
	setString(&c.Quiz.DefaultKind, f.DefaultKind)
	setInt(&c.Quiz.QuestionsPerLesson, f.QuestionsPerLesson)
	setInt(&c.Quiz.EssayMinLen, f.EssayMinLen)
	setInt(&c.Quiz.ShortMinLen, f.ShortMinLen)
	setInt(&c.Quiz.MaxReplays, f.MaxReplays)
	if f.Shuffle != nil {
		c.Quiz.Shuffle = *f.Shuffle
	}
	if f.RequestTimeout != nil {
		d, err := time.ParseDuration(*f.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if len(f.Catalog) > 0 && string(f.Catalog) != "null" {
		c.catalog = f.Catalog
	}
	return nil
}

func (c *Config) applyEnv(logger *slog.Logger) {
	envString(&c.Backend, "REVIZIO_BACKEND")
	envString(&c.ProxyURL, "REVIZIO_PROXY_URL")
	envString(&c.Lessons, "REVIZIO_LESSONS")
	envString(&c.CatalogFile, "REVIZIO_CATALOG")
	envString(&c.DBPath, "REVIZIO_DB")
	envString(&c.LogFile, "REVIZIO_LOG_FILE")
	envString(&c.LogLevel, "REVIZIO_LOG_LEVEL")
	envString(&c.AudioPlayer, "REVIZIO_AUDIO_PLAYER")
	envString(&c.Quiz.DefaultKind, "REVIZIO_KIND")

	if v := os.Getenv("REVIZIO_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Quiz.QuestionsPerLesson = n
		} else {
			logger.Warn("REVIZIO_QUESTIONS ignored", slog.String("value", v))
		}
	}
	if v := os.Getenv("REVIZIO_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		} else {
			logger.Warn("REVIZIO_REQUEST_TIMEOUT ignored", slog.String("value", v))
		}
	}
}

func (c *Config) applyOverrides(o Overrides) {
	overrideString(&c.DBPath, o.DBPath)
	overrideString(&c.CatalogFile, o.Catalog)
	overrideString(&c.Lessons, o.Lessons)
	overrideString(&c.ProxyURL, o.ProxyURL)
	overrideString(&c.Backend, o.Backend)
	overrideString(&c.LogFile, o.LogFile)
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	var problems []string
	switch c.Backend {
	case BackendProxy:
		if c.ProxyURL == "" {
			problems = append(problems, "proxy URL is empty")
		}
	case BackendLLM:
	default:
		problems = append(problems, fmt.Sprintf("unknown backend %q (want %q or %q)", c.Backend, BackendProxy, BackendLLM))
	}
	if c.Lessons == "" {
		problems = append(problems, "lessons location is empty")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request timeout must be positive")
	}
	q := c.Quiz
	if q.QuestionsPerLesson < 1 {
		problems = append(problems, "questions per lesson must be at least 1")
	}
	if q.EssayMinLen < 0 || q.ShortMinLen < 0 || q.MaxReplays < 0 {
		problems = append(problems, "length thresholds and replays must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// RemoteLessons reports whether Lessons is an http(s) URL.
func (c Config) RemoteLessons() bool {
	return strings.HasPrefix(c.Lessons, "http://") || strings.HasPrefix(c.Lessons, "https://")
}

// Catalog returns the catalog from, in order, CatalogFile, the config
// file's "catalog" key, or the built-in tree.
func (c Config) Catalog(knownKind func(string) bool) (catalog.Catalog, error) {
	if c.CatalogFile != "" {
		return catalog.Load(c.CatalogFile, knownKind)
	}
	if len(c.catalog) > 0 {
		cat, err := catalog.Parse(c.catalog)
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("config catalog: %w", err)
		}
		if err := cat.Validate(knownKind); err != nil {
			return catalog.Catalog{}, err
		}
		return cat, nil
	}
	return catalog.Default(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
