package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/revizio/internal/quiz"
	"github.com/abhisek/revizio/internal/quizgen"
	"github.com/abhisek/revizio/internal/ui/components"
	"github.com/abhisek/revizio/internal/ui/theme"
)

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	if s.item == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Aucune question.")
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + kindLabel(s.item))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s", s.pos, s.total, pointsLabel(s.item)))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(s.renderItem(width))

	if s.grading {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.spinner.View()+" "+theme.Hint.Render("Correction en cours...")))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Warn.Render(s.notice)))
	}

	return b.String()
}

func (s *SessionScreen) renderItem(width int) string {
	textWidth := min(width-8, 76)
	prompt := func(text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).Render(text))
	}
	centered := func(text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}

	var b strings.Builder
	switch it := s.item.(type) {
	case quiz.MultipleChoice, quiz.TrueFalse:
		b.WriteString(centered(s.choice.View()))

	case quiz.ShortAnswer:
		b.WriteString(prompt(it.Prompt))
		b.WriteString("\n\n")
		b.WriteString(centered("Réponse : " + s.input.View()))

	case quiz.SpotTheError:
		b.WriteString(centered(theme.Hint.Render("Cette affirmation contient une erreur. Corrige-la.")))
		b.WriteString("\n\n")
		b.WriteString(prompt("« " + it.Statement + " »"))
		b.WriteString("\n\n")
		b.WriteString(centered("Correction : " + s.input.View()))

	case quiz.Essay:
		b.WriteString(prompt(it.Prompt))
		b.WriteString("\n\n")
		b.WriteString(centered(s.area.View()))
		b.WriteString("\n")
		count := len([]rune(strings.TrimSpace(s.area.Value())))
		b.WriteString(centered(theme.Hint.Render(fmt.Sprintf("%d caractères", count))))

	case quiz.Dictation:
		b.WriteString(prompt("Écoute la dictée puis écris ce que tu entends."))
		b.WriteString("\n\n")
		listen := fmt.Sprintf("Écoutes restantes : %d", s.deps.Controller.ReplaysLeft())
		if s.playing {
			listen = s.spinner.View() + " Lecture en cours..."
		}
		b.WriteString(centered(theme.Hint.Render(listen)))
		b.WriteString("\n\n")
		b.WriteString(centered(s.input.View()))

	case quiz.Unknown:
		b.WriteString(centered(theme.Warn.Render(
			fmt.Sprintf("Type de question non pris en charge (%q).", it.Declared))))
		b.WriteString("\n\n")
		b.WriteString(centered(theme.Hint.Render("Appuie sur Entrée ou Tab pour passer.")))
	}
	return b.String()
}

// renderFeedback renders the graded question with its correction.
func (s *SessionScreen) renderFeedback(width int) string {
	g := s.grade

	var b strings.Builder
	b.WriteString("\n")

	switch s.item.(type) {
	case quiz.MultipleChoice, quiz.TrueFalse:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
		b.WriteString("\n")
	}

	var verdict string
	switch {
	case !s.item.Scored():
		verdict = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Correction")
	case g.Correct:
		verdict = theme.Correct.Render(fmt.Sprintf("Bonne réponse !  +%g", g.Awarded))
	case g.Awarded > 0:
		verdict = theme.Warn.Render(fmt.Sprintf("Presque !  %g/%g", g.Awarded, g.Max))
	default:
		verdict = theme.Incorrect.Render(fmt.Sprintf("Pas tout à fait  0/%g", g.Max))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, verdict))
	b.WriteString("\n")

	if !g.Correct && g.Expected != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Réponse attendue : " + g.Expected))
		b.WriteString("\n")
	}
	if s.item.Scored() && !g.ScoreParsed {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Warn.Render("Aucune note lisible dans la correction : 0 point.")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if g.Feedback != "" {
		card := theme.FeedbackCard.Width(min(width-8, 76)).Render(g.Feedback)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Entrée pour continuer..."))

	return b.String()
}

// renderLoading shows one line per lesson and the overall progress.
func (s *SessionScreen) renderLoading(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		s.spinner.View()+" "+lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Préparation des questions...")))
	b.WriteString("\n\n")

	total := len(s.req.Refs)
	finished := 0
	for _, p := range s.progress {
		if p.Stage == quizgen.StageDone || p.Stage == quizgen.StageSkipped {
			finished++
		}
	}

	lines := make([]string, 0, total)
	for i, ref := range s.req.Refs {
		p, ok := s.progress[i+1]
		label := ref.Name
		switch {
		case !ok:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("  · "+label))
		case p.Stage == quizgen.StageDone:
			lines = append(lines, theme.Correct.Render(fmt.Sprintf("  ✓ %s (%d questions)", label, p.Items)))
		case p.Stage == quizgen.StageSkipped:
			lines = append(lines, theme.Warn.Render("  ! "+label+" (ignorée)"))
		case p.Stage == quizgen.StageGenerating:
			lines = append(lines, theme.Selected.Render("  ▸ "+label+" : génération..."))
		default:
			lines = append(lines, theme.Selected.Render("  ▸ "+label+" : chargement..."))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	if total > 0 {
		bar := components.NewProgressBar(finished, total, min(width-10, 50))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	}
	return b.String()
}

// renderFailure explains why the quiz could not start.
func (s *SessionScreen) renderFailure(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Bold(true).
		Render("Impossible de préparer le quiz"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(describeFailure(s.failure)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Entrée pour revenir au menu."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Abandonner le quiz ?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Les réponses de ce quiz seront perdues."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[O] Oui, abandonner"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] Non, continuer"))

	return b.String()
}

func kindLabel(it quiz.Item) string {
	switch it.Kind() {
	case quiz.KindMultipleChoice:
		return quizgen.KindMCQ.Label()
	case quiz.KindTrueFalse:
		return quizgen.KindTrueFalse.Label()
	case quiz.KindShortAnswer:
		return quizgen.KindShortAnswer.Label()
	case quiz.KindEssay:
		return quizgen.KindEssay.Label()
	case quiz.KindSpotTheError:
		return quizgen.KindSpotError.Label()
	case quiz.KindDictation:
		return quizgen.KindDictation.Label()
	}
	return "Question"
}

func pointsLabel(it quiz.Item) string {
	if !it.Scored() {
		return "non noté"
	}
	if it.MaxPoints() == 1 {
		return "1 pt"
	}
	return fmt.Sprintf("%g pts", it.MaxPoints())
}
