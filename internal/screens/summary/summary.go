package summary

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screen"
	"github.com/abhisek/revizio/internal/session"
	"github.com/abhisek/revizio/internal/ui/components"
	"github.com/abhisek/revizio/internal/ui/layout"
	"github.com/abhisek/revizio/internal/ui/theme"
)

// Restarter returns the quiz controller to its idle state.
type Restarter interface {
	Restart()
}

// SummaryScreen displays the end-of-quiz result.
type SummaryScreen struct {
	summary   session.Summary
	skipped   []quizgen.SkippedLesson
	restarter Restarter
	menu      components.Menu
	details   viewport.Model
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary, skipped []quizgen.SkippedLesson, restarter Restarter) *SummaryScreen {
	s := &SummaryScreen{
		summary:   summary,
		skipped:   skipped,
		restarter: restarter,
		details:   viewport.New(),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Nouveau quiz", Action: s.restart},
		{Label: "Quitter", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Résultats"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Entrée", Description: "Valider"},
		{Key: "PgUp/PgDn", Description: "Défiler"},
		{Key: "Esc", Description: "Nouveau quiz"},
	}
}

func (s *SummaryScreen) restart() tea.Cmd {
	if s.restarter != nil {
		s.restarter.Restart()
	}
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, s.restart()
		case "pgdown":
			s.details.PageDown()
			return s, nil
		case "pgup":
			s.details.PageUp()
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Quiz terminé !"))
	b.WriteString("\n\n")

	score := "Note : non applicable"
	if sum.Score != nil {
		score = fmt.Sprintf("Note : %.2f / 20", *sum.Score)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(scoreColor(sum.Score)).
		Bold(true).
		Render(score))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%g points sur %g  ·  %d questions", sum.Earned, sum.Available, len(sum.Answers))))
	b.WriteString("\n")

	if n := sum.Unparsed(); n > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Warn.Render(fmt.Sprintf("%d correction(s) sans note lisible, comptée(s) 0.", n))))
		b.WriteString("\n")
	}
	for _, sk := range s.skipped {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Warn.Render("Leçon ignorée : "+sk.Ref.Name)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	menu := lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View())
	top := b.String()

	s.details.SetWidth(width)
	s.details.SetHeight(max(height-lipgloss.Height(top)-lipgloss.Height(menu)-1, 3))
	s.details.SetContent(renderAnswers(sum.Answers, width))

	return top + s.details.View() + "\n" + menu
}

// renderAnswers lists every question with its outcome.
func renderAnswers(answers []session.Answer, width int) string {
	var b strings.Builder
	for _, a := range answers {
		var mark string
		var style lipgloss.Style
		switch {
		case a.Skipped:
			mark, style = "–", theme.Warn
		case !a.Item.Scored():
			mark, style = "•", lipgloss.NewStyle().Foreground(theme.Secondary)
		case a.Grade.Correct:
			mark, style = "✓", theme.Correct
		case a.Grade.Awarded > 0:
			mark, style = "~", theme.Warn
		default:
			mark, style = "✗", theme.Incorrect
		}

		points := fmt.Sprintf("%g/%g", a.Grade.Awarded, a.Grade.Max)
		switch {
		case a.Skipped:
			points = "passée"
		case !a.Item.Scored():
			points = "non noté"
		}

		q := truncate(a.Item.Question(), max(width-30, 20))
		line := fmt.Sprintf("  %s %2d. %s  %s", mark, a.Position, q, points)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func scoreColor(score *float64) color.Color {
	switch {
	case score == nil:
		return theme.TextDim
	case *score >= 14:
		return theme.Success
	case *score >= 10:
		return theme.Accent
	}
	return theme.Error
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
