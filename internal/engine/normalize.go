package engine

import (
	"strings"
	"unicode"
)

// CaseSignificant lists the letters whose upper and lower case forms are
// distinct keys in the Avro scheme (for example "t" and "T").
const CaseSignificant = "oiudgjnrstyz"

// Normalize folds the case of every rune except the case-significant
// letters, which pass through exactly as typed. The output has the same
// number of runes as the input.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		if strings.ContainsRune(CaseSignificant, lower) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(lower)
	}
	return b.String()
}
