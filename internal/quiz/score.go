package quiz

import (
	"regexp"
	"strconv"
	"strings"
)

// scorePattern matches "N/M" tokens, with either '.' or ',' as decimal mark.
var scorePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*/\s*(\d+(?:[.,]\d+)?)`)

// scoreKeywords mark the token that carries the grade when the text
// contains several fractions, strongest tier first. "Points positifs : 2/3"
// must lose to a later "Note : 6/10".
var scoreKeywords = [][]string{
	{"note", "score", "résultat", "resultat"},
	{"total", "points"},
}

// keywordWindow is how far before a token a keyword may appear.
const keywordWindow = 32

// ExtractScore reads a numeric score from free-form correction text.
// Recognized forms include "Note : 7/10", "score obtenu: 3/4" and
// "7,5 / 10". The token preceded by the strongest score keyword wins,
// the earliest on a tie; without any keyword the last token is used. ok
// is false when no usable token is present.
func ExtractScore(text string) (num, den float64, ok bool) {
	matches := scorePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}

	chosen, best := len(matches)-1, len(scoreKeywords)
	for i, m := range matches {
		start := max(m[0]-keywordWindow, 0)
		if tier := keywordTier(strings.ToLower(text[start:m[0]])); tier < best {
			chosen, best = i, tier
		}
	}

	m := matches[chosen]
	num, err := parseDecimal(text[m[2]:m[3]])
	if err != nil {
		return 0, 0, false
	}
	den, err = parseDecimal(text[m[4]:m[5]])
	if err != nil || den <= 0 {
		return 0, 0, false
	}
	return num, den, true
}

// keywordTier returns the strongest tier with a keyword in window, or
// len(scoreKeywords) when there is none.
func keywordTier(window string) int {
	for tier, kws := range scoreKeywords {
		for _, kw := range kws {
			if strings.Contains(window, kw) {
				return tier
			}
		}
	}
	return len(scoreKeywords)
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
