package quiz

import "testing"

func TestExtractScore(t *testing.T) {
	tests := []struct {
		text    string
		wantNum float64
		wantDen float64
		wantOK  bool
	}{
		{"Note : 7/10", 7, 10, true},
		{"score obtenu: 3/4, bravo", 3, 4, true},
		{"Très bon travail. 7,5 / 10", 7.5, 10, true},
		{"Le 14/07/1789 est une date clé. Note : 6/10", 6, 10, true},
		{"Deux fractions 1/2 puis 3/4", 3, 4, true},
		{"Points positifs : 2/3 des attendus couverts. Note : 6/10", 6, 10, true},
		{"Total des points : 4/5. Il manque la conclusion.", 4, 5, true},
		{"Note : 8/10. Attendus couverts : 3/4", 8, 10, true},
		{"Aucune note ici.", 0, 0, false},
		{"Note : 5/0", 0, 0, false},
	}

	for _, tc := range tests {
		num, den, ok := ExtractScore(tc.text)
		if ok != tc.wantOK {
			t.Errorf("ExtractScore(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			continue
		}
		if num != tc.wantNum || den != tc.wantDen {
			t.Errorf("ExtractScore(%q) = %v/%v, want %v/%v", tc.text, num, den, tc.wantNum, tc.wantDen)
		}
	}
}
