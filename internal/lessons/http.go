package lessons

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/revizio/internal/catalog"
)

// maxLessonBytes caps how much of a lesson body is read.
const maxLessonBytes = 4 << 20

// HTTPSource fetches lessons with GET {BaseURL}/<path>.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source for a static file server. A zero timeout
// leaves requests bounded only by the caller's context.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Load downloads and decodes the lesson file.
func (s *HTTPSource) Load(ctx context.Context, ref catalog.LessonRef) (string, error) {
	u := s.BaseURL + "/" + escapePath(ref.Path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &FetchError{Path: ref.Path, Err: err}
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Path: ref.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &FetchError{Path: ref.Path, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxLessonBytes))
	if err != nil {
		return "", &FetchError{Path: ref.Path, Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	return decode(ref.Path, raw)
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
