package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClasses(t *testing.T) {
	tests := []struct {
		r         rune
		vowel     bool
		consonant bool
	}{
		{'a', true, false},
		{'E', true, false},
		{'u', true, false},
		{'k', false, true},
		{'Z', false, true},
		{'y', false, true},
		{'w', false, true},
		{' ', false, false},
		{'.', false, false},
		{'0', false, false},
		{'`', false, false},
		{'া', false, false},
		{'😀', false, false},
		{'\n', false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.vowel, IsVowel(tt.r))
			assert.Equal(t, tt.consonant, IsConsonant(tt.r))
			assert.Equal(t, !tt.vowel && !tt.consonant, IsPunctuation(tt.r))
		})
	}
}

func TestClasses_Partition(t *testing.T) {
	for r := rune(0); r < 0x80; r++ {
		n := 0
		for _, ok := range []bool{IsVowel(r), IsConsonant(r), IsPunctuation(r)} {
			if ok {
				n++
			}
		}
		assert.Equal(t, 1, n, "rune %q must be in exactly one class", r)
	}
}

func TestIsExact(t *testing.T) {
	hay := []rune("brri")

	assert.True(t, IsExact("b", hay, 0, 1, false))
	assert.False(t, IsExact("b", hay, 0, 1, true))
	assert.True(t, IsExact("rr", hay, 1, 3, false))
	assert.False(t, IsExact("r", hay, 0, 1, false))
	assert.True(t, IsExact("r", hay, 0, 1, true))

	// Out of range windows mean the literal is absent.
	assert.False(t, IsExact("x", hay, -1, 0, false))
	assert.True(t, IsExact("x", hay, -1, 0, true))
	assert.False(t, IsExact("ix", hay, 3, 5, false))
	assert.True(t, IsExact("ix", hay, 3, 5, true))
}

func TestIsExact_Runes(t *testing.T) {
	hay := []rune("কা")
	assert.True(t, IsExact("ক", hay, 0, 1, false))
	assert.True(t, IsExact("া", hay, 1, 2, false))
}
