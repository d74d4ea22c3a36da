package session

import (
	"github.com/abhisek/revizio/internal/quiz"
	"github.com/abhisek/revizio/internal/quizgen"
)

// startDoneMsg is sent when the question list has been built or the build
// failed.
type startDoneMsg struct {
	Err error
}

// progressMsg relays one orchestrator progress report.
type progressMsg quizgen.Progress

// gradedMsg carries the outcome of a submission. Pos guards against a
// late correction landing on another question.
type gradedMsg struct {
	Pos   int
	Grade quiz.Grade
	Err   error
}

// playDoneMsg is sent when a dictation clip has been fetched and played.
type playDoneMsg struct {
	Pos int
	Err error
}

// Feed carries orchestrator progress to the quiz screen. Reports never
// block the build: when nobody listens they are dropped.
type Feed chan quizgen.Progress

// NewFeed creates a buffered feed.
func NewFeed() Feed {
	return make(Feed, 64)
}

// Report implements the orchestrator progress callback.
func (f Feed) Report(p quizgen.Progress) {
	select {
	case f <- p:
	default:
	}
}

// drain discards reports left over from a previous build.
func (f Feed) drain() {
	for {
		select {
		case <-f:
		default:
			return
		}
	}
}
