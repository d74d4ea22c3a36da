package quizgen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/revizio/internal/aiproxy"
)

// maxLessonRunes bounds the lesson text embedded in a prompt.
const maxLessonRunes = 12000

const systemPrompt = `Tu es un générateur de quiz de révision pour des élèves de collège (3ème).

Règles :
- Appuie-toi uniquement sur le texte de la leçon fourni.
- Réponds UNIQUEMENT avec un objet JSON de la forme {"questions": [...]}, sans texte autour.
- Chaque question porte un champ "type" parmi : multiple_choice, true_false, short_answer, essay, spot_the_error, dictation.
- Pour un QCM, donne 4 options et recopie la bonne option mot pour mot dans "answer".
- Les explications sont courtes et adaptées à un élève.
- Ne répète pas deux fois la même question.`

const topicSystemPrompt = `Tu es un générateur de quiz de révision pour des élèves de collège (3ème).

Règles :
- Choisis toi-même un sujet au hasard dans le programme de 3ème (français, mathématiques, histoire-géographie, sciences, langues).
- Réponds UNIQUEMENT avec un objet JSON de la forme {"questions": [...]}, sans texte autour.
- Chaque question porte un champ "type" parmi : multiple_choice, true_false, short_answer, essay, spot_the_error, dictation.
- Pour un QCM, donne 4 options et recopie la bonne option mot pour mot dans "answer".
- Les explications sont courtes et adaptées à un élève.`

var kindExamples = map[Kind]string{
	KindMCQ: `{"type": "multiple_choice", "question": "Quelle est la capitale de la France ?", "options": ["Berlin", "Madrid", "Paris", "Rome"], "answer": "Paris", "explanation": "Paris est la capitale et la plus grande ville de France.", "points": 1}`,

	KindTrueFalse: `{"type": "true_false", "question": "La Révolution française commence en 1789.", "answer": true, "explanation": "La prise de la Bastille a lieu le 14 juillet 1789.", "points": 1}`,

	KindShortAnswer: `{"type": "short_answer", "question": "Quel roi est guillotiné en 1793 ?", "expected": "Louis XVI", "correction_instructions": "Accepte « Louis 16 ».", "points": 2}`,

	KindEssay: `{"type": "essay", "question": "La Révolution française a-t-elle été un tournant majeur ?", "coverage_points": ["Contexte", "Arguments pour", "Nuances", "Conclusion"], "correction_instructions": "Corrige ce paragraphe argumenté d'un élève de 3ème. Donne une note sur 10 et des commentaires constructifs."}`,

	KindSpotError: `{"type": "spot_the_error", "statement": "La Bastille est prise le 14 juillet 1790.", "correction": "La Bastille est prise le 14 juillet 1789.", "points": 2}`,

	KindDictation: `{"type": "dictation", "text": "Le peuple de Paris prend la Bastille.", "points": 2}`,
}

var kindInstructions = map[Kind]string{
	KindMCQ:         "des QCM à 4 options",
	KindTrueFalse:   "des affirmations vrai/faux",
	KindShortAnswer: "des questions à réponse courte (quelques mots)",
	KindEssay:       "des sujets de paragraphe argumenté avec 3 à 4 attendus et une consigne de correction",
	KindSpotError:   "des affirmations contenant exactement une erreur à corriger",
	KindDictation:   "des phrases de dictée tirées de la leçon",
}

// BuildPrompt builds the generation prompt for one lesson. The output is
// deterministic for a given input.
func BuildPrompt(kind Kind, lessonText string, count int) aiproxy.PromptSpec {
	if count < 1 {
		count = 1
	}
	b := requestText(kind, count)
	b.WriteString("\n\nTexte de la leçon :\n---\n")
	b.WriteString(truncateRunes(strings.TrimSpace(lessonText), maxLessonRunes))
	b.WriteString("\n---")

	return aiproxy.PromptSpec{System: systemPrompt, User: b.String(), Count: count}
}

// BuildTopicPrompt asks for questions on a topic the model picks itself.
func BuildTopicPrompt(kind Kind, count int) aiproxy.PromptSpec {
	if count < 1 {
		count = 1
	}
	b := requestText(kind, count)
	b.WriteString("\n\nSujet : au choix, tiré au hasard dans le programme de 3ème.")

	return aiproxy.PromptSpec{System: topicSystemPrompt, User: b.String(), Count: count}
}

// requestText writes the kind instructions and the format example.
func requestText(kind Kind, count int) *strings.Builder {
	b := &strings.Builder{}
	if kind == KindMixed {
		fmt.Fprintf(b, "Génère %d questions variées, réparties équitablement entre ", count)
		parts := make([]string, 0, len(itemKinds))
		for _, k := range Kinds {
			if k != KindMixed {
				parts = append(parts, kindInstructions[k])
			}
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".\n")
	} else {
		fmt.Fprintf(b, "Génère %d questions : %s.\n", count, kindInstructions[kind])
	}

	b.WriteString("\nFormat attendu (exemple) :\n")
	b.WriteString(exampleBatch(kind))
	return b
}

func exampleBatch(kind Kind) string {
	if kind != KindMixed {
		return `{"questions": [` + kindExamples[kind] + `]}`
	}
	examples := make([]string, 0, len(kindExamples))
	for _, k := range Kinds {
		if ex, ok := kindExamples[k]; ok {
			examples = append(examples, ex)
		}
	}
	return "{\"questions\": [\n  " + strings.Join(examples, ",\n  ") + "\n]}"
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + " […]"
}
