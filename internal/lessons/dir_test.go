package lessons

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/revizio/internal/catalog"
)

func writeLesson(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirSource_Load(t *testing.T) {
	root := t.TempDir()
	writeLesson(t, root, "Maths/Aires/aires.md", "## Aire du carré\n\nc × c")
	writeLesson(t, root, "Maths/Aires/notes.txt", "texte brut *non* interprété")

	src := NewDirSource(root)

	got, err := src.Load(t.Context(), catalog.LessonRef{Path: "Maths/Aires/aires.md"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "Aire du carré\n\nc × c" {
		t.Errorf("markdown lesson = %q", got)
	}

	got, err = src.Load(t.Context(), catalog.LessonRef{Path: "Maths/Aires/notes.txt"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "texte brut *non* interprété" {
		t.Errorf("text lesson should be returned verbatim, got %q", got)
	}
}

func TestDirSource_Missing(t *testing.T) {
	src := NewDirSource(t.TempDir())
	_, err := src.Load(t.Context(), catalog.LessonRef{Path: "Maths/Aires/nope.md"})

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if !fe.NotFound() {
		t.Errorf("Status = %d, want 404", fe.Status)
	}
	if fe.Path != "Maths/Aires/nope.md" {
		t.Errorf("Path = %q", fe.Path)
	}
}

func TestDirSource_RejectsTraversal(t *testing.T) {
	src := NewDirSource(t.TempDir())
	_, err := src.Load(t.Context(), catalog.LessonRef{Path: "../../etc/passwd"})

	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != 400 {
		t.Fatalf("expected 400 FetchError, got %v", err)
	}
}

func TestIsStaticQuiz(t *testing.T) {
	tests := map[string]bool{
		"Maths/NP/QCM_1.json": true,
		"Maths/NP/QCM_1.JSON": true,
		"Maths/NP/cours.md":   false,
		"Maths/NP/cours":      false,
	}
	for p, want := range tests {
		if got := IsStaticQuiz(p); got != want {
			t.Errorf("IsStaticQuiz(%q) = %v, want %v", p, got, want)
		}
	}
}
