package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/router"
	"github.com/abhisek/revizio/internal/screen"
	"github.com/abhisek/revizio/internal/store"
	"github.com/abhisek/revizio/internal/ui/layout"
	"github.com/abhisek/revizio/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen lists past quizzes. Enter expands a quiz into its answers.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionRecord
	answers   map[string][]store.AnswerRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.AnswerRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.eventRepo.RecentSessions(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Historique"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Entrée", Description: "Détails"},
		{Key: "↑↓", Description: "Naviguer"},
		{Key: "Esc", Description: "Retour"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.answers[id]; s.expanded[s.selected] && !ok {
				return s, s.loadAnswers(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	return func() tea.Msg {
		answers, err := s.eventRepo.SessionAnswers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nErreur : %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Chargement de l'historique...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Aucun quiz pour l'instant. Lance-toi !")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(sess, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(sess store.SessionRecord, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if sess.Action == store.ActionFail {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render("    "+sess.ErrorMessage)) + "\n"
	}
	answers, ok := s.answers[sess.SessionID]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    ...")) + "\n"
	}
	if len(answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Aucune réponse enregistrée")) + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		mark, style := "✗", theme.Incorrect
		switch {
		case a.Skipped:
			mark, style = "–", theme.Warn
		case a.MaxPoints == 0:
			mark, style = "•", lipgloss.NewStyle().Foreground(theme.TextDim)
		case a.Correct:
			mark, style = "✓", theme.Correct
		}
		q := truncate(a.Question, 50)
		line := fmt.Sprintf("    %s %d. %s  %g/%g", mark, a.Position, q, a.Awarded, a.MaxPoints)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func sessionLine(sess store.SessionRecord) string {
	date := sess.Timestamp.Local().Format("02/01/2006 15:04")
	kind := sess.Kind
	if k, err := quizgen.ParseKind(kind); err == nil {
		kind = k.Label()
	}
	if sess.Action == store.ActionFail {
		return fmt.Sprintf("%s  %s  échec du chargement", date, kind)
	}
	score := "non applicable"
	if sess.Score != nil {
		score = fmt.Sprintf("%.2f/20", *sess.Score)
	}
	return fmt.Sprintf("%s  %s  %d questions  %g/%g pts  %s",
		date, kind, sess.QuestionCount, sess.Earned, sess.Available, score)
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
