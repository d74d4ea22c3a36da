package session

import "math"

// Summary is the end-of-quiz result.
type Summary struct {
	SessionID string
	Earned    float64
	Available float64

	// Score is Earned/Available on a 20-point scale, rounded to two
	// decimals. Nil when no scored item was asked.
	Score *float64

	Answers []Answer
}

// Score20 normalizes earned/available to 20 points.
func Score20(earned, available float64) *float64 {
	if available <= 0 {
		return nil
	}
	s := math.Round(earned/available*20*100) / 100
	return &s
}

// Unparsed counts answers whose correction carried no readable score.
func (s Summary) Unparsed() int {
	n := 0
	for _, a := range s.Answers {
		if !a.Skipped && a.Item.Scored() && !a.Grade.ScoreParsed {
			n++
		}
	}
	return n
}
