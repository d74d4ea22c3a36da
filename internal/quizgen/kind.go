package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/revizio/internal/quiz"
)

// Kind is the question kind requested for a session.
type Kind string

const (
	KindMCQ         Kind = "mcq"
	KindTrueFalse   Kind = "true_false"
	KindShortAnswer Kind = "short_answer"
	KindEssay       Kind = "essay"
	KindSpotError   Kind = "spot_error"
	KindDictation   Kind = "dictation"

	// KindMixed asks for a spread of every kind.
	KindMixed Kind = "mixed"
)

// Kinds lists the selectable kinds in display order.
var Kinds = []Kind{
	KindMixed,
	KindMCQ,
	KindTrueFalse,
	KindShortAnswer,
	KindEssay,
	KindSpotError,
	KindDictation,
}

var kindLabels = map[Kind]string{
	KindMixed:       "Mixte",
	KindMCQ:         "QCM",
	KindTrueFalse:   "Vrai / Faux",
	KindShortAnswer: "Réponse courte",
	KindEssay:       "Paragraphe argumenté",
	KindSpotError:   "Trouve l'erreur",
	KindDictation:   "Dictée",
}

var itemKinds = map[Kind]quiz.Kind{
	KindMCQ:         quiz.KindMultipleChoice,
	KindTrueFalse:   quiz.KindTrueFalse,
	KindShortAnswer: quiz.KindShortAnswer,
	KindEssay:       quiz.KindEssay,
	KindSpotError:   quiz.KindSpotTheError,
	KindDictation:   quiz.KindDictation,
}

// kindAliases maps the names found in lesson files and older catalogs.
var kindAliases = map[string]Kind{
	"qcm":             KindMCQ,
	"multiple_choice": KindMCQ,
	"vrai_faux":       KindTrueFalse,
	"reponse_courte":  KindShortAnswer,
	"paragraphe_ia":   KindEssay,
	"paragraphe":      KindEssay,
	"spot_the_error":  KindSpotError,
	"erreur":          KindSpotError,
	"dictee":          KindDictation,
	"mixte":           KindMixed,
}

// ParseKind resolves a kind name or alias, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := kindLabels[Kind(s)]; ok {
		return Kind(s), nil
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown question kind %q", s)
}

// ValidKind reports whether s names a kind. It is the catalog's check
// for a lesson's preferred kind.
func ValidKind(s string) bool {
	_, err := ParseKind(s)
	return err == nil
}

// Label is the French display name.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// ItemKind maps k to the item variant it produces. ok is false for
// KindMixed.
func (k Kind) ItemKind() (quiz.Kind, bool) {
	ik, ok := itemKinds[k]
	return ik, ok
}

// Accepts reports whether an item of kind ik satisfies a request for k.
func (k Kind) Accepts(ik quiz.Kind) bool {
	if k == KindMixed {
		return ik.Valid()
	}
	want, ok := k.ItemKind()
	return ok && want == ik
}
