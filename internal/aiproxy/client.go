package aiproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const maxResponseBytes = 16 << 20

// Wire bodies of the proxy contract.
type (
	generationRequest struct {
		Prompt string `json:"prompt"`
		System string `json:"system,omitempty"`
		User   string `json:"user,omitempty"`
		Count  int    `json:"count,omitempty"`
	}
	generationResponse struct {
		GeneratedContent json.RawMessage `json:"generated_content,omitempty"`
		Content          json.RawMessage `json:"content,omitempty"`
		Questions        json.RawMessage `json:"questions,omitempty"`
	}
	correctionRequest struct {
		Prompt string `json:"prompt"`
	}
	correctionResponse struct {
		CorrectionText string `json:"correction_text"`
	}
	ttsRequest struct {
		Text string `json:"text"`
	}
	errorResponse struct {
		Error string `json:"error"`
	}
	// Health is the body of GET /health.
	Health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
)

// Client calls a remote proxy over HTTP. It does not retry; every call
// is bounded by the client timeout and the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the proxy at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate calls POST /generation.
func (c *Client) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	status, body, err := c.post(ctx, "/generation", generationRequest{
		Prompt: spec.Combined(),
		System: spec.System,
		User:   spec.User,
		Count:  spec.Count,
	})
	if err != nil {
		return "", &GenerationAPIError{Status: status, Err: err}
	}
	if !ok(status) {
		return "", &GenerationAPIError{Status: status, Detail: errorDetail(body)}
	}

	var resp generationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &GenerationPayloadError{Body: string(body)}
	}
	switch {
	case len(resp.GeneratedContent) > 0:
		return contentText(resp.GeneratedContent, body)
	case len(resp.Content) > 0:
		return contentText(resp.Content, body)
	case len(resp.Questions) > 0 && string(resp.Questions) != "null":
		// The server already parsed the items; hand back the whole body.
		return string(body), nil
	}
	return "", &GenerationPayloadError{Body: string(body)}
}

// contentText accepts a content field holding either a JSON string (the
// usual case, the model output verbatim) or an inline JSON value.
func contentText(field json.RawMessage, body []byte) (string, error) {
	if field[0] == '"' {
		var s string
		if err := json.Unmarshal(field, &s); err != nil || strings.TrimSpace(s) == "" {
			return "", &GenerationPayloadError{Body: string(body)}
		}
		return s, nil
	}
	if string(field) == "null" {
		return "", &GenerationPayloadError{Body: string(body)}
	}
	return string(field), nil
}

// Correct calls POST /correction.
func (c *Client) Correct(ctx context.Context, prompt string) (string, error) {
	status, body, err := c.post(ctx, "/correction", correctionRequest{Prompt: prompt})
	if err != nil {
		return "", &CorrectionAPIError{Status: status, Err: err}
	}
	if !ok(status) {
		return "", &CorrectionAPIError{Status: status, Detail: errorDetail(body)}
	}

	var resp correctionResponse
	if err := json.Unmarshal(body, &resp); err != nil || strings.TrimSpace(resp.CorrectionText) == "" {
		return "", &CorrectionAPIError{Status: status, Detail: "response has no correction_text"}
	}
	return resp.CorrectionText, nil
}

// Speak calls POST /tts and returns the audio bytes.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	status, body, err := c.post(ctx, "/tts", ttsRequest{Text: text})
	if err != nil {
		return nil, &TTSAPIError{Status: status, Err: err}
	}
	if !ok(status) {
		return nil, &TTSAPIError{Status: status}
	}
	if len(body) == 0 {
		return nil, &TTSAPIError{Status: status, Err: fmt.Errorf("empty audio")}
	}
	return body, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return Health{}, fmt.Errorf("health check: status %d", resp.StatusCode)
	}
	var h Health
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("health check: decode: %w", err)
	}
	return h, nil
}

// CheckCompatible fetches /health and compares the server's major
// version with ProtocolVersion.
func (c *Client) CheckCompatible(ctx context.Context) error {
	h, err := c.Health(ctx)
	if err != nil {
		return err
	}
	return Compatible(h.Version, ProtocolVersion)
}

// Compatible reports an *IncompatibleError when server and client
// versions differ in major version or the server version is not semver.
// A missing "v" prefix is tolerated.
func Compatible(server, client string) error {
	sv, cv := canonical(server), canonical(client)
	if !semver.IsValid(sv) || !semver.IsValid(cv) || semver.Major(sv) != semver.Major(cv) {
		return &IncompatibleError{Server: server, Client: client}
	}
	return nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("proxy request failed", slog.String("path", path), slog.Any("error", err))
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.logger.Debug("proxy request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorDetail extracts {"error": "..."} from an error body, falling back
// to the trimmed body text.
func errorDetail(body []byte) string {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return truncate(strings.TrimSpace(string(body)), 200)
}

func ok(status int) bool { return status >= 200 && status <= 299 }
