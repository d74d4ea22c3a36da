package catalog

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	cat "github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screens/session"
)

func testCatalog() cat.Catalog {
	return cat.Catalog{Subjects: []cat.Subject{{
		Name: "Histoire",
		Chapters: []cat.Chapter{{
			Name: "La_Revolution",
			Lessons: []cat.Lesson{
				{File: "causes.md", Name: "Les causes"},
				{File: "1789.md", Name: "L'année 1789"},
			},
		}},
	}}}
}

func newScreen() *CatalogScreen {
	return New(Options{Catalog: testCatalog(), Kind: quizgen.KindMCQ, Count: 3})
}

func space() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
}

func TestCatalogScreen_ToggleSelection(t *testing.T) {
	s := newScreen()

	s.Update(space())
	if s.Selection().Len() != 1 {
		t.Fatalf("selection = %d, want 1", s.Selection().Len())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(space())
	if s.Selection().Len() != 2 {
		t.Fatalf("selection = %d, want 2", s.Selection().Len())
	}

	// Toggling twice is a no-op.
	s.Update(space())
	if s.Selection().Len() != 1 {
		t.Errorf("selection = %d, want 1 after untoggle", s.Selection().Len())
	}
	if !strings.Contains(s.View(120, 30), "Les causes") {
		t.Error("expected selected lesson in the summary panel")
	}
}

func TestCatalogScreen_EmptySelectionRejected(t *testing.T) {
	s := newScreen()

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no navigation with an empty selection")
	}
	if !strings.Contains(s.View(120, 30), "au moins une leçon") {
		t.Error("expected inline empty-selection message")
	}
}

func TestCatalogScreen_StartPushesQuiz(t *testing.T) {
	s := newScreen()
	s.Update(space())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want PushScreenMsg", msg)
	}
	if _, ok := msg.Screen.(*session.SessionScreen); !ok {
		t.Errorf("pushed %T, want *session.SessionScreen", msg.Screen)
	}
}

func TestCatalogScreen_KindPicker(t *testing.T) {
	s := newScreen()
	if s.Kind() != quizgen.KindMCQ {
		t.Fatalf("Kind = %q, want mcq", s.Kind())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Kind() != quizgen.KindMixed {
		t.Errorf("Kind = %q, want mixed", s.Kind())
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Kind() != quizgen.Kinds[len(quizgen.Kinds)-1] {
		t.Errorf("Kind = %q, want wrap to last", s.Kind())
	}
}

func TestCatalogScreen_CountBounds(t *testing.T) {
	s := newScreen()
	for range 20 {
		s.Update(tea.KeyPressMsg{Code: '+', Text: "+"})
	}
	if s.count != maxCount {
		t.Errorf("count = %d, want %d", s.count, maxCount)
	}
	for range 20 {
		s.Update(tea.KeyPressMsg{Code: '-', Text: "-"})
	}
	if s.count != 1 {
		t.Errorf("count = %d, want 1", s.count)
	}
}

func TestCatalogScreen_HistoryDisabledWithoutStore(t *testing.T) {
	s := newScreen()
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if cmd != nil {
		t.Error("expected no history screen without an event store")
	}
}

func TestCatalogScreen_SummaryPanel(t *testing.T) {
	s := newScreen()
	s.Update(space())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(space())

	view := s.View(200, 30)
	if !strings.Contains(view, "Histoire > La_Revolution > Les causes") {
		t.Errorf("expected the selection summary in the panel, got:\n%s", view)
	}
	if !strings.Contains(view, " | ") {
		t.Error("expected lessons separated by \" | \"")
	}
}

func TestCatalogScreen_FreeTopicWithoutSelection(t *testing.T) {
	s := newScreen()

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if cmd == nil {
		t.Fatal("expected a push command for a free-topic quiz")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want PushScreenMsg", msg)
	}
	if _, ok := msg.Screen.(*session.SessionScreen); !ok {
		t.Errorf("pushed %T, want *session.SessionScreen", msg.Screen)
	}
	if s.Selection().Len() != 0 {
		t.Error("free topic should leave the selection untouched")
	}
}
