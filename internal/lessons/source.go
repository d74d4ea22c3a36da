// Package lessons loads lesson text for question generation, from a local
// directory or from a static file server.
package lessons

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/abhisek/revizio/internal/catalog"
)

// Source returns the plain text of a lesson.
type Source interface {
	Load(ctx context.Context, ref catalog.LessonRef) (string, error)
}

// FetchError reports a lesson that could not be retrieved. Status follows
// HTTP semantics for both sources: a missing local file is a 404.
type FetchError struct {
	Path   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("lesson %s: status %d", e.Path, e.Status)
	if e.Status > 0 {
		if text := http.StatusText(e.Status); text != "" {
			msg = fmt.Sprintf("lesson %s: %d %s", e.Path, e.Status, text)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFound reports whether the lesson does not exist at the source.
func (e *FetchError) NotFound() bool { return e.Status == http.StatusNotFound }

// IsStaticQuiz reports whether the lesson file already holds quiz items
// rather than lesson text.
func IsStaticQuiz(p string) bool {
	return strings.EqualFold(path.Ext(p), ".json")
}

// decode turns raw file content into prompt-ready text. Markdown is
// flattened; everything else is returned as is.
func decode(p string, raw []byte) (string, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return Flatten(raw), nil
	}
	return string(raw), nil
}
