package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revizio/internal/store"
)

type mockEventRepo struct {
	store.EventRepo
	sessions []store.SessionRecord
	answers  map[string][]store.AnswerRecord
}

func (m *mockEventRepo) RecentSessions(context.Context, store.QueryOpts) ([]store.SessionRecord, error) {
	return m.sessions, nil
}

func (m *mockEventRepo) SessionAnswers(_ context.Context, id string) ([]store.AnswerRecord, error) {
	return m.answers[id], nil
}

func score(v float64) *float64 { return &v }

func testRepo() *mockEventRepo {
	ts := time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC)
	return &mockEventRepo{
		sessions: []store.SessionRecord{
			{Timestamp: ts, SessionEventData: store.SessionEventData{
				SessionID: "s1", Action: store.ActionFinish, Kind: "mcq",
				QuestionCount: 2, Earned: 3, Available: 4, Score: score(15),
			}},
			{Timestamp: ts, SessionEventData: store.SessionEventData{
				SessionID: "s2", Action: store.ActionFail, Kind: "mixed",
				ErrorMessage: "lesson a.md: 404 Not Found",
			}},
		},
		answers: map[string][]store.AnswerRecord{
			"s1": {{AnswerEventData: store.AnswerEventData{
				SessionID: "s1", Position: 1, Question: "Capitale de la France ?",
				Correct: true, Awarded: 2, MaxPoints: 2,
			}}},
		},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	view := s.View(120, 30)
	if !strings.Contains(view, "15.00/20") {
		t.Errorf("expected score in view:\n%s", view)
	}
	if !strings.Contains(view, "échec") {
		t.Error("expected failed session marker")
	}
}

func TestHistoryScreen_ExpandLoadsAnswers(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected answers to be loaded on expand")
	}
	s.Update(cmd())

	if !strings.Contains(s.View(120, 30), "Capitale de la France") {
		t.Error("expected answer line after expand")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&mockEventRepo{})
	load(t, s)
	if !strings.Contains(s.View(120, 30), "Aucun quiz") {
		t.Error("expected empty-state message")
	}
}
