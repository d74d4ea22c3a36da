package session

import (
	"time"

	"github.com/abhisek/revizio/internal/quiz"
)

// Phase is the controller's position in the quiz lifecycle.
type Phase int

const (
	PhaseIdle     Phase = iota // Selection view, no session
	PhaseLoading               // Building the question list
	PhaseActive                // Serving items
	PhaseFinished              // All items answered or skipped
	PhaseFailed                // Loading failed; Restart returns to Idle
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Answer is the outcome recorded for one item.
type Answer struct {
	// Position is 1-based.
	Position int
	Item     quiz.Item
	Response string
	Grade    quiz.Grade
	Skipped  bool
}

// QuizSession is the state of one quiz attempt. It is created fresh by
// Start and dropped by Restart; nothing carries over between attempts.
type QuizSession struct {
	ID    string
	Items []quiz.Item

	// Index is the 0-based cursor; len(Items) means finished.
	Index int

	Earned float64

	// Available is fixed when the items are loaded.
	Available float64

	Answers   []Answer
	StartedAt time.Time

	// per-item state, reset on advance
	answered bool
	grading  bool
	replays  int
}

func newQuizSession(id string, items []quiz.Item, now time.Time) *QuizSession {
	return &QuizSession{
		ID:        id,
		Items:     items,
		Available: quiz.TotalPoints(items),
		StartedAt: now,
	}
}

func (s *QuizSession) current() quiz.Item {
	if s.Index < 0 || s.Index >= len(s.Items) {
		return nil
	}
	return s.Items[s.Index]
}

func (s *QuizSession) record(a Answer) {
	s.Answers = append(s.Answers, a)
	s.Earned += a.Grade.Awarded
	s.answered = true
}

// advance moves the cursor and reports whether items remain.
func (s *QuizSession) advance() bool {
	s.Index++
	s.answered, s.grading, s.replays = false, false, 0
	return s.Index < len(s.Items)
}
