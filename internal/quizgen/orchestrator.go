// Package quizgen turns selected lessons into quiz items: it builds the
// generation prompt, calls the AI backend and parses what comes back.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/lessons"
	"github.com/abhisek/revizio/internal/quiz"
)

// ErrNoQuestions is returned by Build when no lesson produced an item.
var ErrNoQuestions = errors.New("no questions could be generated")

// FreeTopic stands in for a lesson when the learner asks for questions on
// a topic the model chooses. It is never loaded from the lesson source.
var FreeTopic = catalog.LessonRef{
	Subject: "Sujet libre",
	Path:    "@sujet-libre",
	Name:    "Sujet au hasard",
}

// IsFreeTopic reports whether ref is the FreeTopic pseudo-lesson.
func IsFreeTopic(ref catalog.LessonRef) bool {
	return ref.Path == FreeTopic.Path
}

// Stage is the step a lesson is at when Progress fires.
type Stage string

const (
	StageLoading    Stage = "loading"
	StageGenerating Stage = "generating"
	StageDone       Stage = "done"
	StageSkipped    Stage = "skipped"
)

// Progress reports per-lesson advancement. Index is 1-based.
type Progress struct {
	Index int
	Total int
	Ref   catalog.LessonRef
	Stage Stage
	Items int
}

// SkippedLesson is a lesson whose output could not be parsed.
type SkippedLesson struct {
	Ref catalog.LessonRef
	Err error
}

// Batch is the result of a build.
type Batch struct {
	Items   []quiz.Item
	Skipped []SkippedLesson
}

// Orchestrator builds question batches. Lessons are processed strictly in
// order, one at a time.
type Orchestrator struct {
	source   lessons.Source
	backend  aiproxy.Backend
	logger   *slog.Logger
	progress func(Progress)
	shuffle  *rand.Rand
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithProgress registers a callback invoked on the building goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithShuffle shuffles the final item list with a generator seeded by seed.
func WithShuffle(seed uint64) Option {
	return func(o *Orchestrator) { o.shuffle = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// New creates an Orchestrator.
func New(source lessons.Source, backend aiproxy.Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{source: source, backend: backend, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build generates count items of kind for each ref.
//
// A fetch error or a failed generation call aborts the whole build and
// nothing is returned. A lesson whose output cannot be parsed is recorded
// in Batch.Skipped and the others continue. ErrNoQuestions is returned
// when the batch would be empty.
func (o *Orchestrator) Build(ctx context.Context, refs []catalog.LessonRef, kind Kind, count int) (*Batch, error) {
	if len(refs) == 0 {
		return nil, catalog.ErrSelectionEmpty
	}
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	for i, ref := range refs {
		p := Progress{Index: i + 1, Total: len(refs), Ref: ref}

		items, err := o.buildLesson(ctx, ref, kind, count, p)
		var perr *ParseError
		var payloadErr *aiproxy.GenerationPayloadError
		switch {
		case errors.As(err, &perr), errors.As(err, &payloadErr):
			o.logger.Warn("lesson skipped", slog.String("lesson", ref.Path), slog.Any("error", err))
			batch.Skipped = append(batch.Skipped, SkippedLesson{Ref: ref, Err: err})
			p.Stage = StageSkipped
			o.report(p)
			continue
		case err != nil:
			o.logger.Error("build aborted", slog.String("lesson", ref.Path), slog.Any("error", err))
			return nil, err
		}

		batch.Items = append(batch.Items, items...)
		p.Stage, p.Items = StageDone, len(items)
		o.report(p)
	}

	if len(batch.Items) == 0 {
		return nil, ErrNoQuestions
	}
	if o.shuffle != nil {
		o.shuffle.Shuffle(len(batch.Items), func(i, j int) {
			batch.Items[i], batch.Items[j] = batch.Items[j], batch.Items[i]
		})
	}
	return batch, nil
}

func (o *Orchestrator) buildLesson(ctx context.Context, ref catalog.LessonRef, kind Kind, count int, p Progress) ([]quiz.Item, error) {
	effective := kind
	if kind == KindMixed && ref.Kind != "" {
		if pref, err := ParseKind(ref.Kind); err == nil {
			effective = pref
		}
	}

	var spec aiproxy.PromptSpec
	if IsFreeTopic(ref) {
		spec = BuildTopicPrompt(effective, count)
	} else {
		p.Stage = StageLoading
		o.report(p)

		text, err := o.source.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		// Static quiz files hold ready-made items.
		if lessons.IsStaticQuiz(ref.Path) {
			return Parse(text, KindMixed)
		}
		spec = BuildPrompt(effective, text, count)
	}

	p.Stage = StageGenerating
	o.report(p)

	start := time.Now()
	raw, err := o.backend.Generate(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", ref.Path, err)
	}
	o.logger.Debug("lesson generated",
		slog.String("lesson", ref.Path),
		slog.String("kind", string(effective)),
		slog.Duration("elapsed", time.Since(start)),
	)

	items, err := Parse(raw, effective)
	if err != nil {
		return nil, err
	}
	if count > 0 && len(items) > count {
		items = items[:count]
	}
	return items, nil
}

func (o *Orchestrator) report(p Progress) {
	if o.progress != nil {
		o.progress(p)
	}
}
