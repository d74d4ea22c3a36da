package lessons

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/abhisek/revizio/internal/catalog"
)

// DirSource reads lessons from Root/<Subject>/<Chapter>/<File>.
type DirSource struct {
	Root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Root: dir}
}

// Load reads and decodes the lesson file.
func (s *DirSource) Load(ctx context.Context, ref catalog.LessonRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := path.Clean("/" + ref.Path)
	if clean == "/" || strings.Contains(ref.Path, "..") {
		return "", &FetchError{Path: ref.Path, Status: http.StatusBadRequest, Err: errors.New("invalid lesson path")}
	}

	raw, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			status = http.StatusNotFound
		case errors.Is(err, fs.ErrPermission):
			status = http.StatusForbidden
		}
		return "", &FetchError{Path: ref.Path, Status: status, Err: err}
	}
	return decode(ref.Path, raw)
}
