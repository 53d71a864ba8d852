package engine

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Bhalo", "bhalo"},
		{"KA", "ka"},
		{"Tk", "Tk"},
		{"OI", "OI"},
		{"DhOn", "DhOn"},
		{"Amar SONAR", "amar SONAR"},
		{"আমি", "আমি"},
		{"😀X", "😀x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_PreservesRuneCount(t *testing.T) {
	for _, in := range []string{"Hello World", "ÅÉÎ", "İstanbul", "KELVIN K", "a\x00b\tc"} {
		assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(Normalize(in)), in)
	}
}
