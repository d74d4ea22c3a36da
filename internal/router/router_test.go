package router

import (
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/revizio/internal/screen"
)

type stubScreen struct {
	title string
	inits int
	seen  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestNavigationMessages(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{&stubScreen{title: "quiz"}}}, []string{"catalog", "quiz"}},
		{"pop", []tea.Msg{PushScreenMsg{&stubScreen{title: "quiz"}}, PopScreenMsg{}}, []string{"catalog"}},
		{"pop keeps the root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"catalog"}},
		{"replace top", []tea.Msg{
			PushScreenMsg{&stubScreen{title: "quiz"}},
			ReplaceScreenMsg{&stubScreen{title: "summary"}},
		}, []string{"catalog", "summary"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{&stubScreen{title: "other"}}}, []string{"other"}},
		{"pop to root", []tea.Msg{
			PushScreenMsg{&stubScreen{title: "quiz"}},
			PushScreenMsg{&stubScreen{title: "summary"}},
			PopToRootMsg{},
		}, []string{"catalog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: "catalog"})
			for _, m := range tt.msgs {
				r.Update(m)
			}
			if got := titles(r); !slices.Equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitCalls(t *testing.T) {
	root := &stubScreen{title: "catalog"}
	r := New(root)

	quiz := &stubScreen{title: "quiz"}
	r.Update(PushScreenMsg{quiz})
	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{summary})
	if quiz.inits != 1 || summary.inits != 1 {
		t.Errorf("pushed/replaced screens should be initialized once: %d, %d", quiz.inits, summary.inits)
	}

	r.Update(PopToRootMsg{})
	if root.inits != 1 {
		t.Errorf("root should be re-initialized when revealed, inits = %d", root.inits)
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "catalog"}
	r := New(root)
	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if len(quiz.seen) != 1 || len(root.seen) != 0 {
		t.Errorf("only the active screen should see the key: quiz %d, root %d", len(quiz.seen), len(root.seen))
	}
	if got := r.View(80, 24); got != "quiz" {
		t.Errorf("View = %q", got)
	}
}

func TestBreadcrumbSkipsUntitled(t *testing.T) {
	r := New(&stubScreen{})
	r.Replace(&stubScreen{title: "Leçons"})
	r.Push(&stubScreen{title: "Quiz"})
	r.Push(&stubScreen{})

	if got := r.Breadcrumb(); !slices.Equal(got, []string{"Leçons", "Quiz"}) {
		t.Errorf("Breadcrumb = %v", got)
	}
}
