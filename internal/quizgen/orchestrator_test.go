package quizgen

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/lessons"
)

type fakeSource struct {
	texts map[string]string
	loads []string
}

func (f *fakeSource) Load(_ context.Context, ref catalog.LessonRef) (string, error) {
	f.loads = append(f.loads, ref.Path)
	text, ok := f.texts[ref.Path]
	if !ok {
		return "", &lessons.FetchError{Path: ref.Path, Status: http.StatusNotFound}
	}
	return text, nil
}

type fakeBackend struct {
	replies []string
	errs    []error
	specs   []aiproxy.PromptSpec
}

func (f *fakeBackend) Generate(_ context.Context, spec aiproxy.PromptSpec) (string, error) {
	i := len(f.specs)
	f.specs = append(f.specs, spec)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	return f.replies[i], nil
}

func (f *fakeBackend) Correct(context.Context, string) (string, error) { return "", nil }
func (f *fakeBackend) Speak(context.Context, string) ([]byte, error)   { return nil, nil }

const twoMCQ = `{"questions":[
	{"type":"qcm","question":"Capitale ?","options":["Berlin","Paris","Rome"],"answer":"Paris"},
	{"type":"qcm","question":"Fleuve ?","options":["Seine","Rhin","Pô"],"answer":"Seine"}
]}`

func refs(paths ...string) []catalog.LessonRef {
	out := make([]catalog.LessonRef, len(paths))
	for i, p := range paths {
		out[i] = catalog.LessonRef{Path: p, Name: p}
	}
	return out
}

func TestBuild_Sequential(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "Leçon A", "b.md": "Leçon B"}}
	be := &fakeBackend{replies: []string{twoMCQ, twoMCQ}}

	var progress []Progress
	o := New(src, be, WithProgress(func(p Progress) { progress = append(progress, p) }))

	batch, err := o.Build(context.Background(), refs("a.md", "b.md"), KindMCQ, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(batch.Items))
	}
	if len(src.loads) != 2 || src.loads[0] != "a.md" || src.loads[1] != "b.md" {
		t.Errorf("lessons not loaded in selection order: %v", src.loads)
	}
	if len(be.specs) != 2 || be.specs[1].Count != 2 {
		t.Errorf("unexpected generation calls: %+v", be.specs)
	}

	last := progress[len(progress)-1]
	if last.Index != 2 || last.Total != 2 || last.Stage != StageDone || last.Items != 2 {
		t.Errorf("unexpected final progress %+v", last)
	}
}

func TestBuild_TruncatesToCount(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x"}}
	be := &fakeBackend{replies: []string{twoMCQ}}

	batch, err := New(src, be).Build(context.Background(), refs("a.md"), KindMCQ, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(batch.Items))
	}
}

func TestBuild_FetchErrorAbortsAll(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x"}}
	be := &fakeBackend{replies: []string{twoMCQ}}

	batch, err := New(src, be).Build(context.Background(), refs("a.md", "missing.md"), KindMCQ, 2)
	if batch != nil {
		t.Errorf("expected no partial batch")
	}
	var fe *lessons.FetchError
	if !errors.As(err, &fe) || !fe.NotFound() {
		t.Fatalf("expected 404 FetchError, got %v", err)
	}
}

func TestBuild_APIErrorAbortsAll(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x", "b.md": "y"}}
	be := &fakeBackend{
		replies: []string{twoMCQ, ""},
		errs:    []error{nil, &aiproxy.GenerationAPIError{Status: 500}},
	}

	_, err := New(src, be).Build(context.Background(), refs("a.md", "b.md"), KindMCQ, 2)
	var apiErr *aiproxy.GenerationAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected GenerationAPIError, got %v", err)
	}
}

func TestBuild_ParseErrorSkipsLesson(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x", "b.md": "y"}}
	be := &fakeBackend{replies: []string{"pas de JSON ici", twoMCQ}}

	batch, err := New(src, be).Build(context.Background(), refs("a.md", "b.md"), KindMCQ, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Errorf("expected 2 items from b.md, got %d", len(batch.Items))
	}
	if len(batch.Skipped) != 1 || batch.Skipped[0].Ref.Path != "a.md" {
		t.Fatalf("expected a.md skipped, got %+v", batch.Skipped)
	}
	var perr *ParseError
	if !errors.As(batch.Skipped[0].Err, &perr) {
		t.Errorf("expected ParseError, got %v", batch.Skipped[0].Err)
	}
}

func TestBuild_NoQuestions(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x"}}
	be := &fakeBackend{replies: []string{"rien"}}

	_, err := New(src, be).Build(context.Background(), refs("a.md"), KindMCQ, 2)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestBuild_EmptySelection(t *testing.T) {
	_, err := New(&fakeSource{}, &fakeBackend{}).Build(context.Background(), nil, KindMCQ, 2)
	if !errors.Is(err, catalog.ErrSelectionEmpty) {
		t.Fatalf("expected ErrSelectionEmpty, got %v", err)
	}
}

func TestBuild_PreferredKindOverridesMixed(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"essai.md": "x"}}
	be := &fakeBackend{replies: []string{`{"type":"essay","question":"Sujet ?"}`}}

	r := catalog.LessonRef{Path: "essai.md", Kind: "paragraphe_ia"}
	batch, err := New(src, be).Build(context.Background(), []catalog.LessonRef{r}, KindMixed, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(batch.Items))
	}
	if be.specs[0].User != BuildPrompt(KindEssay, "x", 1).User {
		t.Errorf("expected essay prompt for a lesson preferring essays")
	}
}

func TestBuild_StaticQuizSkipsGeneration(t *testing.T) {
	src := &fakeSource{texts: map[string]string{
		"qcm.json": `[{"type":"qcm","question":"Capitale ?","options":["Berlin","Paris","Rome","Madrid"],"reponse_correcte":"Paris"}]`,
	}}
	be := &fakeBackend{}

	batch, err := New(src, be).Build(context.Background(), refs("qcm.json"), KindMixed, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 1 {
		t.Errorf("expected 1 static item, got %d", len(batch.Items))
	}
	if len(be.specs) != 0 {
		t.Errorf("static quiz should not call the generator")
	}
}

func TestBuild_ShuffleKeepsItems(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x"}}
	be := &fakeBackend{replies: []string{twoMCQ}}

	batch, err := New(src, be, WithShuffle(42)).Build(context.Background(), refs("a.md"), KindMCQ, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(batch.Items))
	}
}

func TestBuild_FreeTopicSkipsLessonSource(t *testing.T) {
	src := &fakeSource{}
	be := &fakeBackend{replies: []string{twoMCQ}}

	var stages []Stage
	o := New(src, be, WithProgress(func(p Progress) { stages = append(stages, p.Stage) }))

	batch, err := o.Build(context.Background(), []catalog.LessonRef{FreeTopic}, KindMCQ, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(batch.Items))
	}
	if len(src.loads) != 0 {
		t.Errorf("free topic should not load a lesson, loaded %v", src.loads)
	}
	if len(be.specs) != 1 || be.specs[0] != BuildTopicPrompt(KindMCQ, 2) {
		t.Errorf("expected the topic prompt, got %+v", be.specs)
	}
	for _, st := range stages {
		if st == StageLoading {
			t.Errorf("unexpected loading stage for a free topic: %v", stages)
		}
	}
}

func TestBuild_FreeTopicUnusableReply(t *testing.T) {
	be := &fakeBackend{replies: []string{"désolé"}}

	_, err := New(&fakeSource{}, be).Build(context.Background(), []catalog.LessonRef{FreeTopic}, KindEssay, 1)
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestBuild_KindAlias(t *testing.T) {
	src := &fakeSource{texts: map[string]string{"a.md": "x"}}
	be := &fakeBackend{replies: []string{twoMCQ}}

	batch, err := New(src, be).Build(context.Background(), refs("a.md"), Kind("QCM"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Items) != 2 {
		t.Errorf("expected 2 items for the qcm alias, got %d", len(batch.Items))
	}
	if be.specs[0].User != BuildPrompt(KindMCQ, "x", 2).User {
		t.Error("expected the alias to resolve to the mcq prompt")
	}
}
