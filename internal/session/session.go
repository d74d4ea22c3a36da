// Package session runs a quiz: it builds the item list, serves one item
// at a time, grades answers and computes the final score.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/revizio/internal/aiproxy"
	"github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/llm"
	"github.com/abhisek/revizio/internal/quiz"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/store"
)

var (
	ErrAlreadyRunning  = errors.New("a quiz is already running")
	ErrAlreadyAnswered = errors.New("this question has already been answered")
	ErrNotAnswered     = errors.New("answer or skip the question first")
	ErrNotActive       = errors.New("no active question")
	ErrWrongKind       = errors.New("answer does not fit this question type")
	ErrGrading         = errors.New("a correction is already in progress")
	ErrReplayLimit     = errors.New("no replays left for this dictation")
)

// Builder produces the item list. *quizgen.Orchestrator implements it.
type Builder interface {
	Build(ctx context.Context, refs []catalog.LessonRef, kind quizgen.Kind, count int) (*quizgen.Batch, error)
}

// Config holds the quiz tunables.
type Config struct {
	EssayMinLen int
	ShortMinLen int
	MaxReplays  int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{EssayMinLen: 50, ShortMinLen: 3, MaxReplays: 3}
}

// Controller drives one quiz at a time. All methods are safe for
// concurrent use; network calls run without holding the lock.
type Controller struct {
	builder Builder
	backend aiproxy.Backend
	events  store.EventRepo
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time

	mu      sync.Mutex
	phase   Phase
	gen     int
	session *QuizSession
	failure error
	skipped []quizgen.SkippedLesson
	kind    quizgen.Kind
}

// Option configures a Controller.
type Option func(*Controller)

// WithEvents records session and answer events. A nil repo disables recording.
func WithEvents(repo store.EventRepo) Option {
	return func(c *Controller) { c.events = repo }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithConfig overrides the tunables.
func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle controller.
func NewController(builder Builder, backend aiproxy.Backend, opts ...Option) *Controller {
	c := &Controller{
		builder: builder,
		backend: backend,
		logger:  slog.Default(),
		cfg:     DefaultConfig(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Failure returns the error that moved the controller to PhaseFailed.
func (c *Controller) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Skipped returns the lessons whose generated output was unusable.
func (c *Controller) Skipped() []quizgen.SkippedLesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]quizgen.SkippedLesson(nil), c.skipped...)
}

// Start builds a new quiz from refs. It blocks until the list is built.
// An empty selection is rejected before any state change. A build error
// moves the controller to PhaseFailed and is returned.
func (c *Controller) Start(ctx context.Context, refs []catalog.LessonRef, kind quizgen.Kind, count int) error {
	if len(refs) == 0 {
		return catalog.ErrSelectionEmpty
	}

	c.mu.Lock()
	if c.phase == PhaseLoading || c.phase == PhaseActive {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.gen++
	gen := c.gen
	c.phase = PhaseLoading
	c.session, c.failure, c.skipped = nil, nil, nil
	c.kind = kind
	id := uuid.NewString()
	started := c.now()
	c.mu.Unlock()

	lessonPaths := make([]string, len(refs))
	for i, r := range refs {
		lessonPaths[i] = r.Path
	}
	c.recordSession(ctx, store.SessionEventData{
		SessionID: id,
		Action:    store.ActionStart,
		Kind:      string(kind),
		Lessons:   lessonPaths,
	})

	batch, err := c.builder.Build(llm.WithSession(ctx, id), refs, kind, count)

	c.mu.Lock()
	if gen != c.gen {
		// Restarted while loading.
		c.mu.Unlock()
		return context.Canceled
	}
	if err != nil {
		c.phase = PhaseFailed
		c.failure = err
		c.mu.Unlock()

		c.logger.Error("quiz build failed", slog.String("session", id), slog.Any("error", err))
		c.recordSession(ctx, store.SessionEventData{
			SessionID:    id,
			Action:       store.ActionFail,
			Kind:         string(kind),
			Lessons:      lessonPaths,
			ErrorMessage: err.Error(),
			DurationSecs: int(c.now().Sub(started).Seconds()),
		})
		return err
	}

	c.session = newQuizSession(id, batch.Items, started)
	c.skipped = batch.Skipped
	c.phase = PhaseActive
	c.mu.Unlock()

	c.logger.Info("quiz started",
		slog.String("session", id),
		slog.Int("items", len(batch.Items)),
		slog.Int("skipped_lessons", len(batch.Skipped)),
	)
	return nil
}

// Current returns the active item with its 1-based position and the
// total. It has no side effects.
func (c *Controller) Current() (quiz.Item, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseActive || c.session == nil {
		return nil, 0, 0
	}
	return c.session.current(), c.session.Index + 1, len(c.session.Items)
}

// Answered reports whether the active item has been graded.
func (c *Controller) Answered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.answered
}

// ReplaysLeft returns the remaining dictation replays for the active item.
func (c *Controller) ReplaysLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return max(c.cfg.MaxReplays-c.session.replays, 0)
}

// SubmitChoice grades a multiple-choice answer.
func (c *Controller) SubmitChoice(choice string) (quiz.Grade, error) {
	return c.gradeLocal(func(it quiz.Item) (quiz.Grade, string, error) {
		mc, ok := it.(quiz.MultipleChoice)
		if !ok {
			return quiz.Grade{}, "", ErrWrongKind
		}
		g, err := quiz.GradeChoice(mc, choice)
		return g, choice, err
	})
}

// SubmitTrueFalse grades a true/false answer.
func (c *Controller) SubmitTrueFalse(answer bool) (quiz.Grade, error) {
	return c.gradeLocal(func(it quiz.Item) (quiz.Grade, string, error) {
		tf, ok := it.(quiz.TrueFalse)
		if !ok {
			return quiz.Grade{}, "", ErrWrongKind
		}
		return quiz.GradeTrueFalse(tf, answer), quiz.BoolLabel(answer), nil
	})
}

// SubmitDictation grades a transcription.
func (c *Controller) SubmitDictation(text string) (quiz.Grade, error) {
	return c.gradeLocal(func(it quiz.Item) (quiz.Grade, string, error) {
		d, ok := it.(quiz.Dictation)
		if !ok {
			return quiz.Grade{}, "", ErrWrongKind
		}
		g, err := quiz.GradeDictation(d, text)
		return g, text, err
	})
}

func (c *Controller) gradeLocal(grade func(quiz.Item) (quiz.Grade, string, error)) (quiz.Grade, error) {
	c.mu.Lock()
	it, err := c.gradable()
	if err != nil {
		c.mu.Unlock()
		return quiz.Grade{}, err
	}
	g, response, err := grade(it)
	if err != nil {
		c.mu.Unlock()
		return quiz.Grade{}, err
	}
	a := Answer{Position: c.session.Index + 1, Item: it, Response: response, Grade: g}
	c.session.record(a)
	id := c.session.ID
	c.mu.Unlock()

	c.recordAnswer(id, a)
	return g, nil
}

// SubmitText sends a free-text answer to the correction endpoint and
// grades it from the returned prose. On a correction error the item
// stays unanswered so the learner can retry or skip.
func (c *Controller) SubmitText(ctx context.Context, text string) (quiz.Grade, error) {
	c.mu.Lock()
	it, err := c.gradable()
	if err != nil {
		c.mu.Unlock()
		return quiz.Grade{}, err
	}
	if !quiz.NeedsCorrection(it) {
		c.mu.Unlock()
		return quiz.Grade{}, ErrWrongKind
	}
	minLen := c.cfg.ShortMinLen
	if it.Kind() == quiz.KindEssay {
		minLen = c.cfg.EssayMinLen
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLen {
		c.mu.Unlock()
		return quiz.Grade{}, fmt.Errorf("%w: at least %d characters", quiz.ErrAnswerTooShort, minLen)
	}
	sess := c.session
	pos := sess.Index
	sess.grading = true
	c.mu.Unlock()

	feedback, err := c.backend.Correct(llm.WithSession(ctx, sess.ID), quiz.CorrectionPrompt(it, text))

	c.mu.Lock()
	if c.session != sess || sess.Index != pos {
		c.mu.Unlock()
		return quiz.Grade{}, ErrNotActive
	}
	sess.grading = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("correction failed", slog.String("session", sess.ID), slog.Any("error", err))
		return quiz.Grade{}, err
	}
	g := quiz.GradeCorrection(it, feedback)
	a := Answer{Position: pos + 1, Item: it, Response: text, Grade: g}
	sess.record(a)
	c.mu.Unlock()

	if !g.ScoreParsed && it.Scored() {
		c.logger.Warn("no score found in correction", slog.String("session", sess.ID), slog.Int("position", pos+1))
	}
	c.recordAnswer(sess.ID, a)
	return g, nil
}

// gradable returns the active item if it can still be graded. Callers
// hold c.mu.
func (c *Controller) gradable() (quiz.Item, error) {
	if c.phase != PhaseActive || c.session == nil {
		return nil, ErrNotActive
	}
	if c.session.grading {
		return nil, ErrGrading
	}
	if c.session.answered {
		return nil, ErrAlreadyAnswered
	}
	it := c.session.current()
	if it == nil {
		return nil, ErrNotActive
	}
	return it, nil
}

// Skip advances without answering. A skipped scored item keeps its
// points in the denominator. Skipping an answered item is the same as Next.
func (c *Controller) Skip() error {
	c.mu.Lock()
	if c.phase != PhaseActive || c.session == nil {
		c.mu.Unlock()
		return ErrNotActive
	}
	if c.session.grading {
		c.mu.Unlock()
		return ErrGrading
	}
	var skipped *Answer
	if !c.session.answered {
		it := c.session.current()
		a := Answer{
			Position: c.session.Index + 1,
			Item:     it,
			Skipped:  true,
			Grade:    quiz.Grade{Max: it.MaxPoints(), ScoreParsed: true},
		}
		c.session.record(a)
		skipped = &a
	}
	id := c.session.ID
	c.mu.Unlock()

	if skipped != nil {
		c.recordAnswer(id, *skipped)
	}
	return c.Next()
}

// Next moves past an answered item. Passing the last item enters
// PhaseFinished.
func (c *Controller) Next() error {
	c.mu.Lock()
	if c.phase != PhaseActive || c.session == nil {
		c.mu.Unlock()
		return ErrNotActive
	}
	if !c.session.answered {
		c.mu.Unlock()
		return ErrNotAnswered
	}
	if c.session.advance() {
		c.mu.Unlock()
		return nil
	}

	c.phase = PhaseFinished
	sess := c.session
	kind := c.kind
	skipped := len(c.skipped)
	c.mu.Unlock()

	score := Score20(sess.Earned, sess.Available)
	c.logger.Info("quiz finished",
		slog.String("session", sess.ID),
		slog.Float64("earned", sess.Earned),
		slog.Float64("available", sess.Available),
	)
	c.recordSession(context.Background(), store.SessionEventData{
		SessionID:      sess.ID,
		Action:         store.ActionFinish,
		Kind:           string(kind),
		QuestionCount:  len(sess.Items),
		SkippedLessons: skipped,
		Earned:         sess.Earned,
		Available:      sess.Available,
		Score:          score,
		DurationSecs:   int(c.now().Sub(sess.StartedAt).Seconds()),
	})
	return nil
}

// Speak returns dictation audio for the active item, at most MaxReplays
// times per item.
func (c *Controller) Speak(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	if c.phase != PhaseActive || c.session == nil {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	d, ok := c.session.current().(quiz.Dictation)
	if !ok {
		c.mu.Unlock()
		return nil, ErrWrongKind
	}
	if c.session.replays >= c.cfg.MaxReplays {
		c.mu.Unlock()
		return nil, ErrReplayLimit
	}
	c.session.replays++
	sess, pos := c.session, c.session.Index
	c.mu.Unlock()

	audio, err := c.backend.Speak(ctx, d.Text)
	if err != nil {
		// A failed call does not use up a replay.
		c.mu.Lock()
		if c.session == sess && sess.Index == pos && sess.replays > 0 {
			sess.replays--
		}
		c.mu.Unlock()
		return nil, err
	}
	return audio, nil
}

// Result returns the running or final tally.
func (c *Controller) Result() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Summary{}
	}
	return Summary{
		SessionID: c.session.ID,
		Earned:    c.session.Earned,
		Available: c.session.Available,
		Score:     Score20(c.session.Earned, c.session.Available),
		Answers:   append([]Answer(nil), c.session.Answers...),
	}
}

// Restart drops the session and returns to PhaseIdle. A build still in
// flight is discarded when it returns.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.phase = PhaseIdle
	c.session, c.failure, c.skipped = nil, nil, nil
}

func (c *Controller) recordSession(ctx context.Context, data store.SessionEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		c.logger.Warn("record session event", slog.String("action", data.Action), slog.Any("error", err))
	}
}

func (c *Controller) recordAnswer(sessionID string, a Answer) {
	if c.events == nil {
		return
	}
	data := store.AnswerEventData{
		SessionID:     sessionID,
		Position:      a.Position,
		Kind:          string(a.Item.Kind()),
		Question:      a.Item.Question(),
		LearnerAnswer: a.Response,
		Expected:      a.Grade.Expected,
		Correct:       a.Grade.Correct,
		Skipped:       a.Skipped,
		Awarded:       a.Grade.Awarded,
		MaxPoints:     a.Grade.Max,
		ScoreParsed:   a.Grade.ScoreParsed,
		Feedback:      a.Grade.Feedback,
	}
	if err := c.events.AppendAnswerEvent(context.Background(), data); err != nil {
		c.logger.Warn("record answer event", slog.Any("error", err))
	}
}
