package quiz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

var (
	// ErrNoChoice is returned when a choice-based item is submitted
	// without a selection.
	ErrNoChoice = errors.New("no answer selected")

	// ErrAnswerTooShort is returned when a free-text answer is below the
	// minimum length for its kind.
	ErrAnswerTooShort = errors.New("answer is too short")
)

// Grade is the outcome of grading one item.
type Grade struct {
	Correct bool
	Awarded float64
	Max     float64

	// Expected is the reference answer, shown when the learner missed.
	Expected string

	// Feedback is the explanation or the correction text, verbatim.
	Feedback string

	// ScoreParsed is false when an AI correction carried no readable
	// score. The item then earns 0 but keeps its points in the denominator.
	ScoreParsed bool
}

// GradeChoice compares the chosen option with the correct one.
func GradeChoice(item MultipleChoice, choice string) (Grade, error) {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return Grade{}, ErrNoChoice
	}
	g := Grade{
		Max:         item.MaxPoints(),
		Expected:    item.Correct,
		Feedback:    item.Explanation,
		ScoreParsed: true,
	}
	if choice == strings.TrimSpace(item.Correct) {
		g.Correct = true
		g.Awarded = g.Max
	}
	return g, nil
}

// GradeTrueFalse compares the learner's verdict with the stored one.
func GradeTrueFalse(item TrueFalse, answer bool) Grade {
	g := Grade{
		Max:         item.MaxPoints(),
		Expected:    BoolLabel(item.Correct),
		Feedback:    item.Explanation,
		ScoreParsed: true,
	}
	if answer == item.Correct {
		g.Correct = true
		g.Awarded = g.Max
	}
	return g
}

// GradeDictation compares the transcription with the reference text after
// normalization (case folding, punctuation removal, whitespace collapsing).
func GradeDictation(item Dictation, transcription string) (Grade, error) {
	if strings.TrimSpace(transcription) == "" {
		return Grade{}, ErrAnswerTooShort
	}
	g := Grade{
		Max:         item.MaxPoints(),
		Expected:    item.Text,
		ScoreParsed: true,
	}
	if NormalizeText(transcription) == NormalizeText(item.Text) {
		g.Correct = true
		g.Awarded = g.Max
	}
	return g, nil
}

// GradeCorrection turns the correction endpoint's prose into a Grade.
// The score is read with ExtractScore and scaled to the item's points;
// when no score is found the item earns 0 (ScoreFallbackZero).
func GradeCorrection(item Item, feedback string) Grade {
	g := Grade{
		Max:      item.MaxPoints(),
		Feedback: feedback,
		Expected: expectedAnswer(item),
	}
	num, den, ok := ExtractScore(feedback)
	g.ScoreParsed = ok
	if !ok || !item.Scored() {
		return g
	}
	g.Awarded = clamp(num/den*g.Max, 0, g.Max)
	g.Awarded = math.Round(g.Awarded*100) / 100
	g.Correct = g.Max > 0 && g.Awarded >= g.Max/2
	return g
}

// CorrectionPrompt composes the prompt sent to the correction endpoint:
// grading instructions, the reference answer when known, then the
// learner's text between separators.
func CorrectionPrompt(item Item, answer string) string {
	var b strings.Builder
	switch it := item.(type) {
	case ShortAnswer:
		b.WriteString(instructionsOr(it.CorrectionInstructions,
			"Corrige la réponse courte de l'élève."))
		fmt.Fprintf(&b, "\n\nQuestion : %s", it.Prompt)
		if it.Expected != "" {
			fmt.Fprintf(&b, "\nRéponse attendue : %s", it.Expected)
		}
		fmt.Fprintf(&b, "\nDonne une note sur %s sous la forme \"Note : X/%s\".", formatPoints(it.Points), formatPoints(it.Points))
	case Essay:
		b.WriteString(instructionsOr(it.CorrectionInstructions,
			"Corrige ce paragraphe argumenté. Donne une note sur 10 et des commentaires constructifs."))
		fmt.Fprintf(&b, "\n\nSujet : %s", it.Prompt)
		if len(it.CoveragePoints) > 0 {
			fmt.Fprintf(&b, "\nAttendus : %s", strings.Join(it.CoveragePoints, ", "))
		}
	case SpotTheError:
		b.WriteString(instructionsOr(it.CorrectionInstructions,
			"L'élève doit corriger l'erreur contenue dans l'affirmation suivante."))
		fmt.Fprintf(&b, "\n\nAffirmation erronée : %s", it.Statement)
		if it.Correction != "" {
			fmt.Fprintf(&b, "\nCorrection attendue : %s", it.Correction)
		}
		fmt.Fprintf(&b, "\nDonne une note sur %s sous la forme \"Note : X/%s\".", formatPoints(it.Points), formatPoints(it.Points))
	default:
		b.WriteString(item.Question())
	}
	fmt.Fprintf(&b, "\n\nTexte de l'élève à corriger:\n\n---\n%s\n---", strings.TrimSpace(answer))
	return b.String()
}

// NormalizeText lowercases s, replaces punctuation with spaces and
// collapses runs of whitespace.
func NormalizeText(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// BoolLabel renders a true/false verdict for display.
func BoolLabel(v bool) string {
	if v {
		return "Vrai"
	}
	return "Faux"
}

func expectedAnswer(item Item) string {
	switch it := item.(type) {
	case ShortAnswer:
		return it.Expected
	case SpotTheError:
		return it.Correction
	}
	return ""
}

func instructionsOr(instructions, fallback string) string {
	if s := strings.TrimSpace(instructions); s != "" {
		return s
	}
	return fallback
}

func formatPoints(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%d", int(p))
	}
	return fmt.Sprintf("%.1f", p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
