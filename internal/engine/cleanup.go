package engine

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Marks removed from reverse output: the Avro disambiguation backtick, the
// hasanta (virama) and the nukta.
const (
	markBacktick = '`'
	markHasanta  = '্'
	markNukta    = '়'
)

// vowelSpelling maps independent vowels left over after scanning to Latin.
var vowelSpelling = map[rune]rune{
	'আ': 'a',
	'অ': 'o',
	'ই': 'i',
	'ঈ': 'e',
	'উ': 'u',
	'এ': 'e',
}

func isStrippedMark(r rune) bool {
	return r == markBacktick || r == markHasanta || r == markNukta
}

func spellVowel(r rune) rune {
	if l, ok := vowelSpelling[r]; ok {
		return l
	}
	return r
}

// newCleanup returns the reverse cleanup transformer. Chains keep state, so
// each call builds its own.
func newCleanup() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.Predicate(isStrippedMark)),
		runes.Map(spellVowel),
	)
}

// Cleanup applies the reverse post-pass to s.
func Cleanup(s string) string {
	out, _, err := transform.String(newCleanup(), s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if isStrippedMark(r) {
				return -1
			}
			return spellVowel(r)
		}, s)
	}
	return out
}
