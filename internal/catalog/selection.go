package catalog

import (
	"errors"
	"strings"
)

// ErrSelectionEmpty is returned by callers that need at least one lesson.
var ErrSelectionEmpty = errors.New("no lesson selected")

// Selection is the ordered set of lessons the learner checked. It keeps
// insertion order and never holds two refs with the same path. The zero
// value is an empty selection.
type Selection struct {
	refs []LessonRef
}

// Toggle adds ref when checked and removes it otherwise. Adding a path
// that is already present and removing an absent one are no-ops.
func (s *Selection) Toggle(ref LessonRef, checked bool) {
	idx := s.index(ref.Path)
	switch {
	case checked && idx < 0:
		s.refs = append(s.refs, ref)
	case !checked && idx >= 0:
		s.refs = append(s.refs[:idx:idx], s.refs[idx+1:]...)
	}
}

// Contains reports whether a lesson with the given path is selected.
func (s *Selection) Contains(path string) bool {
	return s.index(path) >= 0
}

// Len returns the number of selected lessons.
func (s *Selection) Len() int { return len(s.refs) }

// Refs returns a copy of the selection in the order lessons were checked.
func (s *Selection) Refs() []LessonRef {
	out := make([]LessonRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() { s.refs = nil }

// Summary renders "Subject > Chapter > Name" for each lesson, joined by " | ".
func (s *Selection) Summary() string {
	parts := make([]string, 0, len(s.refs))
	for _, r := range s.refs {
		parts = append(parts, r.Subject+" > "+r.Chapter+" > "+r.Name)
	}
	return strings.Join(parts, " | ")
}

func (s *Selection) index(path string) int {
	for i, r := range s.refs {
		if r.Path == path {
			return i
		}
	}
	return -1
}
