// Package charclass classifies the neighbours of a rule match.
//
// Classification is ASCII only. Any rune outside the Latin letters (digits,
// spaces, punctuation, Bengali script, emoji) is punctuation.
package charclass

const (
	vowels     = "aeiou"
	consonants = "bcdfghjklmnpqrstvwxyz"
)

func lowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func in(set string, r rune) bool {
	r = lowerASCII(r)
	if r > 0x7f {
		return false
	}
	for i := 0; i < len(set); i++ {
		if rune(set[i]) == r {
			return true
		}
	}
	return false
}

// IsVowel reports whether r is one of aeiou, in either case.
func IsVowel(r rune) bool {
	return in(vowels, r)
}

// IsConsonant reports whether r is a Latin consonant, in either case.
func IsConsonant(r rune) bool {
	return in(consonants, r)
}

// IsPunctuation reports whether r is neither vowel nor consonant.
func IsPunctuation(r rune) bool {
	return !IsVowel(r) && !IsConsonant(r)
}

// IsExact reports whether haystack[start:end] equals needle, XOR negate.
// Indices count runes. A window that falls outside haystack counts as the
// literal being absent.
func IsExact(needle string, haystack []rune, start, end int, negate bool) bool {
	if start < 0 || end > len(haystack) || start > end {
		return negate
	}
	return (string(haystack[start:end]) == needle) != negate
}
