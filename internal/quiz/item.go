package quiz

import "encoding/json"

// Kind identifies the variant of a quiz item.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindShortAnswer    Kind = "short_answer"
	KindEssay          Kind = "essay"
	KindSpotTheError   Kind = "spot_the_error"
	KindDictation      Kind = "dictation"

	// KindUnknown is reported for items whose declared kind is not
	// recognized. They render as a placeholder and can only be skipped.
	KindUnknown Kind = "unknown"
)

// Kinds lists every gradable kind in display order.
var Kinds = []Kind{
	KindMultipleChoice,
	KindTrueFalse,
	KindShortAnswer,
	KindEssay,
	KindSpotTheError,
	KindDictation,
}

// Valid reports whether k is one of the known gradable kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Item is a single generated quiz unit. The set of implementations is
// closed: MultipleChoice, TrueFalse, ShortAnswer, Essay, SpotTheError,
// Dictation and Unknown.
type Item interface {
	// Kind returns the variant tag.
	Kind() Kind

	// MaxPoints returns the points this item contributes to the session
	// denominator. Unscored items return 0.
	MaxPoints() float64

	// Scored reports whether the item counts toward the final score.
	Scored() bool

	// Question returns the text shown to the learner.
	Question() string

	sealed()
}

// MultipleChoice is graded locally by exact comparison with Correct.
type MultipleChoice struct {
	Prompt      string
	Options     []string
	Correct     string
	Explanation string
	Points      float64
}

// TrueFalse is graded locally.
type TrueFalse struct {
	Prompt      string
	Correct     bool
	Explanation string
	Points      float64
}

// ShortAnswer is graded by the correction endpoint.
type ShortAnswer struct {
	Prompt                 string
	Expected               string
	CorrectionInstructions string
	Points                 float64
}

// Essay is corrected by the correction endpoint but never scored.
type Essay struct {
	Prompt                 string
	CoveragePoints         []string
	CorrectionInstructions string
}

// SpotTheError shows a flawed statement; the learner writes the fix,
// which is graded by the correction endpoint.
type SpotTheError struct {
	Statement              string
	Correction             string
	CorrectionInstructions string
	Points                 float64
}

// Dictation is played through text-to-speech and graded locally by
// normalized comparison with Text.
type Dictation struct {
	Text   string
	Points float64
}

// Unknown wraps generated output whose kind is not recognized.
type Unknown struct {
	Declared string
	Raw      json.RawMessage
}

func (MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (TrueFalse) Kind() Kind      { return KindTrueFalse }
func (ShortAnswer) Kind() Kind    { return KindShortAnswer }
func (Essay) Kind() Kind          { return KindEssay }
func (SpotTheError) Kind() Kind   { return KindSpotTheError }
func (Dictation) Kind() Kind      { return KindDictation }
func (Unknown) Kind() Kind        { return KindUnknown }

func (i MultipleChoice) MaxPoints() float64 { return nonNegative(i.Points) }
func (i TrueFalse) MaxPoints() float64      { return nonNegative(i.Points) }
func (i ShortAnswer) MaxPoints() float64    { return nonNegative(i.Points) }
func (Essay) MaxPoints() float64            { return 0 }
func (i SpotTheError) MaxPoints() float64   { return nonNegative(i.Points) }
func (i Dictation) MaxPoints() float64      { return nonNegative(i.Points) }
func (Unknown) MaxPoints() float64          { return 0 }

func (MultipleChoice) Scored() bool { return true }
func (TrueFalse) Scored() bool      { return true }
func (ShortAnswer) Scored() bool    { return true }
func (Essay) Scored() bool          { return false }
func (SpotTheError) Scored() bool   { return true }
func (Dictation) Scored() bool      { return true }
func (Unknown) Scored() bool        { return false }

func (i MultipleChoice) Question() string { return i.Prompt }
func (i TrueFalse) Question() string      { return i.Prompt }
func (i ShortAnswer) Question() string    { return i.Prompt }
func (i Essay) Question() string          { return i.Prompt }
func (i SpotTheError) Question() string   { return i.Statement }
func (Dictation) Question() string        { return "Listen and write down what you hear." }
func (i Unknown) Question() string        { return "Unknown question type: " + i.Declared }

func (MultipleChoice) sealed() {}
func (TrueFalse) sealed()      {}
func (ShortAnswer) sealed()    {}
func (Essay) sealed()          {}
func (SpotTheError) sealed()   {}
func (Dictation) sealed()      {}
func (Unknown) sealed()        {}

// NeedsCorrection reports whether the item is graded by the correction
// endpoint rather than locally.
func NeedsCorrection(it Item) bool {
	switch it.(type) {
	case ShortAnswer, Essay, SpotTheError:
		return true
	}
	return false
}

// TotalPoints sums MaxPoints over the scored items.
func TotalPoints(items []Item) float64 {
	var total float64
	for _, it := range items {
		if it.Scored() {
			total += it.MaxPoints()
		}
	}
	return total
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
