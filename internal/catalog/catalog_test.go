package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(nil); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestRender_Order(t *testing.T) {
	entries := Render(Default())

	if entries[0].Level != LevelSubject || entries[0].Label != "Mathematiques" {
		t.Fatalf("first entry = %+v, want Mathematiques subject", entries[0])
	}
	if entries[1].Level != LevelChapter || entries[1].Label != "Nombres Premiers" {
		t.Errorf("second entry = %+v, want chapter with spaces", entries[1])
	}
	lesson := entries[2]
	if !lesson.Selectable() || lesson.Ref == nil {
		t.Fatalf("third entry should be a lesson, got %+v", lesson)
	}
	if lesson.Ref.Path != "Mathematiques/Nombres_Premiers/QCM_1.json" {
		t.Errorf("path = %q", lesson.Ref.Path)
	}
	if lesson.Label != "QCM_1.json" {
		t.Errorf("label = %q, want the file name", lesson.Label)
	}

	var lessons int
	for _, e := range entries {
		if e.Selectable() {
			lessons++
		}
	}
	if lessons != len(Default().Refs()) {
		t.Errorf("rendered %d lessons, catalog has %d", lessons, len(Default().Refs()))
	}
}

func TestRender_Deterministic(t *testing.T) {
	a := Render(Default())
	b := Render(Default())
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Level != b[i].Level {
			t.Fatalf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	ref, ok := c.Lookup("Histoire_Geo/La_Revolution_Francaise/Paragraphe_Argumente_1.json")
	if !ok {
		t.Fatal("expected lesson to be found")
	}
	if ref.Kind != "essay" {
		t.Errorf("kind = %q, want essay", ref.Kind)
	}
	if _, ok := c.Lookup("/Histoire_Geo/La_Revolution_Francaise/Paragraphe_Argumente_1.json"); !ok {
		t.Error("leading slash should be ignored")
	}
	if _, ok := c.Lookup("Allemand/Nope/x.json"); ok {
		t.Error("expected miss")
	}
}

func TestValidate(t *testing.T) {
	known := func(k string) bool { return k == "mcq" || k == "essay" }

	tests := []struct {
		name    string
		catalog Catalog
		wantErr string
	}{
		{
			name: "duplicate path",
			catalog: Catalog{Subjects: []Subject{{Name: "Maths", Chapters: []Chapter{
				{Name: "A", Lessons: []Lesson{{File: "x.md"}, {File: "x.md"}}},
			}}}},
			wantErr: "duplicate lesson path",
		},
		{
			name: "empty subject",
			catalog: Catalog{Subjects: []Subject{{Name: " ", Chapters: []Chapter{
				{Name: "A", Lessons: []Lesson{{File: "x.md"}}},
			}}}},
			wantErr: "empty name",
		},
		{
			name: "unknown kind",
			catalog: Catalog{Subjects: []Subject{{Name: "Maths", Chapters: []Chapter{
				{Name: "A", Lessons: []Lesson{{File: "x.md", Kind: "crossword"}}},
			}}}},
			wantErr: "unknown kind",
		},
		{
			name: "nested file",
			catalog: Catalog{Subjects: []Subject{{Name: "Maths", Chapters: []Chapter{
				{Name: "A", Lessons: []Lesson{{File: "../x.md"}}},
			}}}},
			wantErr: "plain file name",
		},
		{
			name:    "no subjects",
			catalog: Catalog{},
			wantErr: "no subjects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate(known)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ExplicitYAML(t *testing.T) {
	data := []byte(`
subjects:
  - name: Physique
    chapters:
      - name: Les_Forces
        lessons:
          - file: forces.md
            name: Les forces
            kind: mcq
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	refs := c.Refs()
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}
	want := LessonRef{Subject: "Physique", Chapter: "Les_Forces", Path: "Physique/Les_Forces/forces.md", Name: "Les forces", Kind: "mcq"}
	if refs[0] != want {
		t.Errorf("ref = %+v, want %+v", refs[0], want)
	}
}

func TestParse_CompactJSONKeepsOrder(t *testing.T) {
	data := []byte(`{
  "Zoologie": {"Oiseaux": ["a.json", "b.json"]},
  "Algebre": {"Equations": ["c.md"], "Fonctions": ["d.md"]}
}`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Subjects[0].Name != "Zoologie" || c.Subjects[1].Name != "Algebre" {
		t.Errorf("subject order not kept: %+v", c.Subjects)
	}
	if got := c.Subjects[1].Chapters[1].Name; got != "Fonctions" {
		t.Errorf("chapter order not kept, got %q", got)
	}
	if got := len(c.Refs()); got != 4 {
		t.Errorf("got %d refs, want 4", got)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "[1, 2]", `{"Maths": ["a.json"]}`} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestLoad_ValidatesKinds(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	body := "Maths:\n  Aires:\n    - aires.md\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p, func(string) bool { return true })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Lookup("Maths/Aires/aires.md"); !ok {
		t.Error("expected lesson from file")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
