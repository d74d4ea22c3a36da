// Package catalog is the root screen: the learner checks lessons, picks a
// question kind and starts a quiz.
package catalog

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	cat "github.com/abhisek/revizio/internal/catalog"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screen"
	"github.com/abhisek/revizio/internal/screens/history"
	"github.com/abhisek/revizio/internal/screens/session"
	"github.com/abhisek/revizio/internal/store"
	"github.com/abhisek/revizio/internal/ui/components"
	"github.com/abhisek/revizio/internal/ui/layout"
	"github.com/abhisek/revizio/internal/ui/theme"
)

const maxCount = 10

// Options configure the catalog screen.
type Options struct {
	Catalog cat.Catalog
	Quiz    session.Deps

	// Events enables the history screen when set.
	Events store.EventRepo

	Kind  quizgen.Kind
	Count int
}

// CatalogScreen implements screen.Screen for lesson selection.
type CatalogScreen struct {
	opts      Options
	selection *cat.Selection
	list      components.Checklist
	kindIdx   int
	count     int
	notice    string
}

var _ screen.Screen = (*CatalogScreen)(nil)
var _ screen.KeyHintProvider = (*CatalogScreen)(nil)
var _ screen.StatusProvider = (*CatalogScreen)(nil)

// New creates the selection screen.
func New(opts Options) *CatalogScreen {
	sel := &cat.Selection{}
	s := &CatalogScreen{
		opts:      opts,
		selection: sel,
		list:      components.NewChecklist(cat.Render(opts.Catalog), sel),
		count:     opts.Count,
	}
	if s.count <= 0 {
		s.count = 3
	}
	for i, k := range quizgen.Kinds {
		if k == opts.Kind {
			s.kindIdx = i
		}
	}
	return s
}

func (s *CatalogScreen) Init() tea.Cmd {
	s.notice = ""
	return nil
}

func (s *CatalogScreen) Title() string {
	return "Choix des leçons"
}

// Status shows how many lessons are checked.
func (s *CatalogScreen) Status() string {
	n := s.selection.Len()
	if n < 2 {
		return fmt.Sprintf("%d leçon  ", n)
	}
	return fmt.Sprintf("%d leçons  ", n)
}

func (s *CatalogScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Espace", Description: "Cocher"},
		{Key: "←→", Description: "Type"},
		{Key: "+/-", Description: "Questions"},
		{Key: "Entrée", Description: "Commencer"},
		{Key: "G", Description: "Sujet au hasard"},
	}
	if s.opts.Events != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "Historique"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quitter"})
}

// Kind returns the selected question kind.
func (s *CatalogScreen) Kind() quizgen.Kind {
	return quizgen.Kinds[s.kindIdx]
}

// Selection exposes the checked lessons.
func (s *CatalogScreen) Selection() *cat.Selection {
	return s.selection
}

func (s *CatalogScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s.start()
	case "g":
		return s, s.openQuiz([]cat.LessonRef{quizgen.FreeTopic})
	case "h":
		if s.opts.Events != nil {
			return s, s.openHistory()
		}
		return s, nil
	case "left":
		s.kindIdx = (s.kindIdx + len(quizgen.Kinds) - 1) % len(quizgen.Kinds)
		return s, nil
	case "right":
		s.kindIdx = (s.kindIdx + 1) % len(quizgen.Kinds)
		return s, nil
	case "+", "=":
		s.count = min(s.count+1, maxCount)
		return s, nil
	case "-":
		s.count = max(s.count-1, 1)
		return s, nil
	case "c":
		s.selection.Clear()
		return s, nil
	}

	s.notice = ""
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *CatalogScreen) openHistory() tea.Cmd {
	h := history.New(s.opts.Events)
	return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
}

// start rejects an empty selection inline; otherwise it opens the quiz.
func (s *CatalogScreen) start() (screen.Screen, tea.Cmd) {
	if s.selection.Len() == 0 {
		s.notice = "Coche au moins une leçon avant de commencer."
		return s, nil
	}
	return s, s.openQuiz(s.selection.Refs())
}

func (s *CatalogScreen) openQuiz(refs []cat.LessonRef) tea.Cmd {
	s.notice = ""
	q := session.New(s.opts.Quiz, session.Request{
		Refs:  refs,
		Kind:  s.Kind(),
		Count: s.count,
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: q} }
}

func (s *CatalogScreen) View(width, height int) string {
	var side strings.Builder
	side.WriteString(theme.Heading.Render("Type de questions"))
	side.WriteString("\n")
	side.WriteString(theme.Selected.Render("◂ " + s.Kind().Label() + " ▸"))
	side.WriteString("\n\n")
	side.WriteString(theme.Heading.Render("Questions par leçon"))
	side.WriteString("\n")
	side.WriteString(theme.Body.Render(fmt.Sprintf("%d", s.count)))
	side.WriteString("\n\n")
	side.WriteString(theme.Heading.Render("Sélection"))
	side.WriteString("\n")
	if s.selection.Len() == 0 {
		side.WriteString(theme.Hint.Render("Aucune leçon cochée"))
	} else {
		side.WriteString(theme.Body.Render(s.selection.Summary()))
	}
	side.WriteString("\n\n")
	side.WriteString(components.Button{Label: "Commencer", Enabled: s.selection.Len() > 0, Reason: "Coche au moins une leçon"}.View())
	if s.notice != "" {
		side.WriteString("\n\n")
		side.WriteString(theme.ErrorText.Render(s.notice))
	}

	listWidth := width / 2
	sideWidth := width - listWidth - 4
	if layout.IsCompactWidth(width) {
		listWidth = width - 2
		sideWidth = width - 2
	}

	s.list.Height = max(height-2, 5)
	if layout.IsCompactWidth(width) {
		s.list.Height = max(height-16, 5)
	}

	list := lipgloss.NewStyle().Width(listWidth).Padding(1, 2).Render(s.list.View())
	panel := lipgloss.NewStyle().Width(sideWidth).Padding(1, 2).Render(side.String())

	if layout.IsCompactWidth(width) {
		return lipgloss.JoinVertical(lipgloss.Left, panel, list)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, panel)
}
