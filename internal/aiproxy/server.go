package aiproxy

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxRequestBytes = 1 << 20

// ServerConfig configures the proxy server.
type ServerConfig struct {
	// LessonDir, when set, is served under /matieres/.
	LessonDir string

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// RequestTimeout bounds each request. Zero means 2 minutes.
	RequestTimeout time.Duration
}

// Server exposes a Backend over the proxy HTTP contract.
type Server struct {
	backend Backend
	cfg     ServerConfig
	logger  *slog.Logger
}

// NewServer creates a server for backend. A nil logger uses slog.Default().
func NewServer(backend Backend, cfg ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	return &Server{backend: backend, cfg: cfg, logger: logger}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/generation", s.handleGeneration)
	r.Post("/correction", s.handleCorrection)
	r.Post("/tts", s.handleTTS)

	if s.cfg.LessonDir != "" {
		files := http.StripPrefix("/matieres/", http.FileServer(http.Dir(s.cfg.LessonDir)))
		r.Get("/matieres/*", files.ServeHTTP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok", Version: ProtocolVersion})
}

func (s *Server) handleGeneration(w http.ResponseWriter, r *http.Request) {
	var req generationRequest
	if !decode(w, r, &req) {
		return
	}
	spec := PromptSpec{System: req.System, User: req.User, Count: req.Count}
	if spec.System == "" && spec.User == "" {
		spec.User = req.Prompt
	}
	if strings.TrimSpace(spec.Combined()) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := s.backend.Generate(r.Context(), spec)
	if err != nil {
		s.logger.Error("generation failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"generated_content": text})
}

func (s *Server) handleCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := s.backend.Correct(r.Context(), req.Prompt)
	if err != nil {
		s.logger.Error("correction failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, correctionResponse{CorrectionText: text})
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := s.backend.Speak(r.Context(), req.Text)
	switch {
	case errors.Is(err, ErrTTSUnavailable):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case err != nil:
		s.logger.Error("tts failed", slog.String("request_id", middleware.GetReqID(r.Context())), slog.Any("error", err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// logRequests logs one line per request with slog.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
