package quizgen

import (
	"errors"
	"testing"

	"github.com/abhisek/revizio/internal/quiz"
)

func TestParse_SingleLegacyQCM(t *testing.T) {
	raw := `{ "type": "qcm", "question": "Quelle est la capitale de la France ?", "options": ["Berlin","Madrid","Paris","Rome"], "reponse_correcte": "Paris", "explication": "Paris est la capitale." }`

	items, err := Parse(raw, KindMCQ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	mc, ok := items[0].(quiz.MultipleChoice)
	if !ok {
		t.Fatalf("expected MultipleChoice, got %T", items[0])
	}
	if mc.Correct != "Paris" {
		t.Errorf("expected correct Paris, got %q", mc.Correct)
	}
	if mc.Explanation != "Paris est la capitale." {
		t.Errorf("unexpected explanation %q", mc.Explanation)
	}
	if mc.Points != 1 {
		t.Errorf("expected default 1 point, got %v", mc.Points)
	}
}

func TestParse_LegacyEssay(t *testing.T) {
	raw := `{"type": "paragraphe_ia", "sujet": "La Révolution a-t-elle été un tournant ?", "attendus": ["Contexte","Arguments"], "consigne_ia": "Note sur 10."}`

	items, err := Parse(raw, KindEssay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := items[0].(quiz.Essay)
	if !ok {
		t.Fatalf("expected Essay, got %T", items[0])
	}
	if e.Prompt == "" || len(e.CoveragePoints) != 2 || e.CorrectionInstructions != "Note sur 10." {
		t.Errorf("aliases not applied: %+v", e)
	}
}

func TestParse_FencedBatch(t *testing.T) {
	raw := "Voici le quiz :\n```json\n" + `{"questions": [
		{"type": "true_false", "question": "La Seine traverse Paris.", "answer": "vrai"},
		{"type": "dictation", "texte": " Le chat dort. ", "points": 3},
		{"type": "spot_the_error", "affirmation": "1789 est en 1790.", "correction": "1789"}
	]}` + "\n```\nBonne révision !"

	items, err := Parse(raw, KindMixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	tf := items[0].(quiz.TrueFalse)
	if !tf.Correct {
		t.Errorf("expected \"vrai\" to parse as true")
	}
	d := items[1].(quiz.Dictation)
	if d.Text != "Le chat dort." || d.Points != 3 {
		t.Errorf("unexpected dictation %+v", d)
	}
	s := items[2].(quiz.SpotTheError)
	if s.Statement != "1789 est en 1790." || s.Points != 2 {
		t.Errorf("unexpected spot-the-error %+v", s)
	}
}

func TestParse_ProseAroundArray(t *testing.T) {
	raw := `Bien sûr ! [{"type":"short_answer","question":"Qui ? {piège}","expected":"Louis XVI"}] Voilà.`
	items, err := Parse(raw, KindShortAnswer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sa := items[0].(quiz.ShortAnswer)
	if sa.Prompt != "Qui ? {piège}" {
		t.Errorf("unexpected prompt %q", sa.Prompt)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"bracketed number first", `Voici [3] questions : {"questions":[{"type":"true_false","question":"La Terre est ronde.","answer":true}]}`},
		{"unclosed brace first", `Format {question, answer} attendu, puis { le résultat : [{"type":"true_false","question":"La Terre est ronde.","answer":"vrai"}]`},
		{"array of strings first", `Mots-clés ["Terre","ronde"]. [{"type":"true_false","question":"La Terre est ronde.","answer":true}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.raw, KindTrueFalse)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			tf, ok := items[0].(quiz.TrueFalse)
			if !ok || !tf.Correct {
				t.Errorf("unexpected item %+v", items[0])
			}
		})
	}
}

func TestParse_UnknownType(t *testing.T) {
	raw := `{"questions":[{"type":"mots_croises","grille":[]}]}`

	items, err := Parse(raw, KindMixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := items[0].(quiz.Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", items[0])
	}
	if u.Declared != "mots_croises" {
		t.Errorf("unexpected declared %q", u.Declared)
	}

	if _, err := Parse(raw, KindMCQ); !errors.Is(err, errKindMismatch) {
		t.Errorf("expected kind mismatch for a specific request, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Kind
		target   error
	}{
		{"no json", "Désolé, je ne peux pas.", KindMCQ, errNoJSON},
		{"unbalanced", `{"questions": [`, KindMCQ, errNoJSON},
		{"empty questions", `{"questions": []}`, KindMCQ, errNoQuestions},
		{"kind mismatch", `{"type":"true_false","question":"x","answer":true}`, KindMCQ, errKindMismatch},
		{"answer not in options", `{"type":"qcm","question":"x","options":["a","b","c"],"answer":"d"}`, KindMCQ, nil},
		{"too few options", `{"type":"qcm","question":"x","options":["a","b"],"answer":"a"}`, KindMCQ, nil},
		{"missing dictation text", `{"type":"dictation"}`, KindDictation, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.expected)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Raw != tt.raw {
				t.Errorf("ParseError.Raw not preserved")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"mcq", KindMCQ, true},
		{"QCM", KindMCQ, true},
		{"paragraphe_ia", KindEssay, true},
		{" mixed ", KindMixed, true},
		{"dictee", KindDictation, true},
		{"crossword", "", false},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}
	if !KindMixed.Accepts(quiz.KindDictation) || KindMixed.Accepts(quiz.KindUnknown) {
		t.Errorf("mixed should accept every known kind and nothing else")
	}
}
