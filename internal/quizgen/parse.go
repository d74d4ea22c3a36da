package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/revizio/internal/llm"
	"github.com/abhisek/revizio/internal/quiz"
)

var (
	errNoJSON       = errors.New("no JSON value found")
	errNoQuestions  = errors.New("response holds no questions")
	errKindMismatch = errors.New("item kind does not match the requested kind")
)

// ParseError reports generated output that could not be turned into items.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generated quiz: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// keyAliases maps field names used by hand-written lesson files and the
// hosted generator onto the canonical names.
var keyAliases = map[string]string{
	"kind":                "type",
	"reponse_correcte":    "answer",
	"reponse":             "answer",
	"explication":         "explanation",
	"sujet":               "question",
	"enonce":              "question",
	"affirmation":         "statement",
	"attendus":            "coverage_points",
	"consigne_ia":         "correction_instructions",
	"reponse_attendue":    "expected",
	"correction_attendue": "correction",
	"texte":               "text",
	"bareme":              "points",
}

// typeAliases maps declared item types onto item kinds.
var typeAliases = map[string]quiz.Kind{
	"multiple_choice": quiz.KindMultipleChoice,
	"mcq":             quiz.KindMultipleChoice,
	"qcm":             quiz.KindMultipleChoice,
	"true_false":      quiz.KindTrueFalse,
	"vrai_faux":       quiz.KindTrueFalse,
	"short_answer":    quiz.KindShortAnswer,
	"reponse_courte":  quiz.KindShortAnswer,
	"essay":           quiz.KindEssay,
	"paragraphe_ia":   quiz.KindEssay,
	"paragraphe":      quiz.KindEssay,
	"spot_the_error":  quiz.KindSpotTheError,
	"spot_error":      quiz.KindSpotTheError,
	"erreur":          quiz.KindSpotTheError,
	"dictation":       quiz.KindDictation,
	"dictee":          quiz.KindDictation,
}

var defaultPoints = map[quiz.Kind]float64{
	quiz.KindMultipleChoice: 1,
	quiz.KindTrueFalse:      1,
	quiz.KindShortAnswer:    2,
	quiz.KindSpotTheError:   2,
	quiz.KindDictation:      2,
}

type wireItem struct {
	Type                   string          `json:"type"`
	Question               string          `json:"question"`
	Statement              string          `json:"statement"`
	Options                []string        `json:"options"`
	Answer                 json.RawMessage `json:"answer"`
	Explanation            string          `json:"explanation"`
	Expected               string          `json:"expected"`
	Correction             string          `json:"correction"`
	CorrectionInstructions string          `json:"correction_instructions"`
	CoveragePoints         []string        `json:"coverage_points"`
	Text                   string          `json:"text"`
	Points                 *float64        `json:"points"`
}

// Parse turns generated text into items. It accepts a single item, an
// array of items or {"questions": [...]}, optionally wrapped in a code
// fence or surrounded by prose. Every item is validated against its
// kind's schema. Items of an unrecognized type become quiz.Unknown when
// expected is KindMixed and fail the parse otherwise.
func Parse(raw string, expected Kind) ([]quiz.Item, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	var root any
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	elems, err := itemList(root)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	items := make([]quiz.Item, 0, len(elems))
	for i, el := range elems {
		it, err := parseItem(el, expected)
		if err != nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("item %d: %w", i+1, err)}
		}
		items = append(items, it)
	}
	return items, nil
}

func itemList(root any) ([]any, error) {
	switch v := root.(type) {
	case []any:
		if len(v) == 0 {
			return nil, errNoQuestions
		}
		return v, nil
	case map[string]any:
		q, ok := v["questions"]
		if !ok {
			return []any{v}, nil
		}
		list, ok := q.([]any)
		if !ok {
			return nil, errors.New(`"questions" is not an array`)
		}
		if len(list) == 0 {
			return nil, errNoQuestions
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected JSON %T", root)
}

func parseItem(el any, expected Kind) (quiz.Item, error) {
	m, ok := el.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", el)
	}
	normalizeKeys(m)

	declared, _ := m["type"].(string)
	kind, known := typeAliases[strings.ToLower(strings.TrimSpace(declared))]
	if !known {
		if expected != KindMixed {
			return nil, fmt.Errorf("%w: got %q, want %s", errKindMismatch, declared, expected)
		}
		raw, _ := json.Marshal(m)
		return quiz.Unknown{Declared: declared, Raw: raw}, nil
	}
	if !expected.Accepts(kind) {
		return nil, fmt.Errorf("%w: got %s, want %s", errKindMismatch, kind, expected)
	}

	switch kind {
	case quiz.KindTrueFalse:
		coerceBool(m, "answer")
	case quiz.KindSpotTheError:
		moveKey(m, "question", "statement")
	default:
		moveKey(m, "statement", "question")
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateValue(itemSchemas[kind], m, raw); err != nil {
		return nil, err
	}

	var w wireItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.toItem(kind)
}

func (w wireItem) toItem(kind quiz.Kind) (quiz.Item, error) {
	pts := defaultPoints[kind]
	if w.Points != nil {
		pts = *w.Points
	}

	switch kind {
	case quiz.KindMultipleChoice:
		var answer string
		if err := json.Unmarshal(w.Answer, &answer); err != nil {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		opts := make([]string, len(w.Options))
		found := false
		for i, o := range w.Options {
			opts[i] = strings.TrimSpace(o)
			if opts[i] == answer {
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("answer %q is not one of the options", answer)
		}
		return quiz.MultipleChoice{Prompt: w.Question, Options: opts, Correct: answer, Explanation: w.Explanation, Points: pts}, nil

	case quiz.KindTrueFalse:
		var answer bool
		if err := json.Unmarshal(w.Answer, &answer); err != nil {
			return nil, err
		}
		return quiz.TrueFalse{Prompt: w.Question, Correct: answer, Explanation: w.Explanation, Points: pts}, nil

	case quiz.KindShortAnswer:
		return quiz.ShortAnswer{Prompt: w.Question, Expected: w.Expected, CorrectionInstructions: w.CorrectionInstructions, Points: pts}, nil

	case quiz.KindEssay:
		return quiz.Essay{Prompt: w.Question, CoveragePoints: w.CoveragePoints, CorrectionInstructions: w.CorrectionInstructions}, nil

	case quiz.KindSpotTheError:
		return quiz.SpotTheError{Statement: w.Statement, Correction: w.Correction, CorrectionInstructions: w.CorrectionInstructions, Points: pts}, nil

	case quiz.KindDictation:
		return quiz.Dictation{Text: strings.TrimSpace(w.Text), Points: pts}, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func normalizeKeys(m map[string]any) {
	for alias, canonical := range keyAliases {
		v, ok := m[alias]
		if !ok {
			continue
		}
		if _, taken := m[canonical]; !taken {
			m[canonical] = v
		}
		delete(m, alias)
	}
}

// moveKey renames from to to when to is absent.
func moveKey(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, taken := m[to]; !taken {
		m[to] = v
	}
	delete(m, from)
}

// coerceBool accepts "vrai"/"faux"/"true"/"false" strings for a boolean field.
func coerceBool(m map[string]any, key string) {
	s, ok := m[key].(string)
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vrai", "true", "v":
		m[key] = true
	case "faux", "false", "f":
		m[key] = false
	}
}

// extractJSON returns the first balanced JSON value in s that can hold
// items: an object or a non-empty array of objects. It looks inside the
// first code fence when there is one. Brackets in surrounding prose are
// passed over.
func extractJSON(s string) (string, error) {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	unbalanced := false
	for from := 0; from < len(s); {
		i := strings.IndexAny(s[from:], "{[")
		if i < 0 {
			break
		}
		start := from + i
		from = start + 1

		span, ok := balancedSpan(s, start)
		if !ok {
			unbalanced = true
			continue
		}
		if json.Valid([]byte(span)) && holdsItems(span) {
			return span, nil
		}
	}
	if unbalanced {
		return "", fmt.Errorf("%w: unbalanced brackets", errNoJSON)
	}
	return "", errNoJSON
}

// balancedSpan returns s[start:] up to the bracket closing s[start],
// skipping brackets inside strings.
func balancedSpan(s string, start int) (string, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func holdsItems(span string) bool {
	if span[0] == '{' {
		return true
	}
	var list []json.RawMessage
	if err := json.Unmarshal([]byte(span), &list); err != nil || len(list) == 0 {
		return false
	}
	for _, el := range list {
		if t := strings.TrimSpace(string(el)); !strings.HasPrefix(t, "{") {
			return false
		}
	}
	return true
}
