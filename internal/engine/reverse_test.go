package engine

import (
	"bytes"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/byakoron/internal/rules"
)

func TestBuildReverse_Filters(t *testing.T) {
	table := rules.NewTable([]rules.Rule{
		{Find: "kh", Replace: "খ"},
		{Find: "o", Replace: "অ"},
		{Find: "`", Replace: ""},
		{Find: "kkh", Replace: "ক্ষ"},
		{Find: "k", Replace: "ক"},
		{Find: "x", Replace: "ক্স"},
	}, "o")

	got := BuildReverse(table)
	assert.Equal(t, []ReverseRule{
		{Find: "ক্ষ", Replace: "kkh"},
		{Find: "ক্স", Replace: "x"},
		{Find: "খ", Replace: "kh"},
		{Find: "ক", Replace: "k"},
	}, got)
}

func TestBuildReverse_Default(t *testing.T) {
	rev := BuildReverse(rules.Default())
	require.Len(t, rev, 286)

	for i := 1; i < len(rev); i++ {
		assert.GreaterOrEqual(t,
			utf8.RuneCountInString(rev[i-1].Find),
			utf8.RuneCountInString(rev[i].Find),
			"reverse table must be sorted by descending length at %d", i)
	}
	for _, r := range rev {
		assert.NotEqual(t, "o", r.Replace, "elision literal is excluded")
		assert.NotEmpty(t, r.Find)
	}

	var buf bytes.Buffer
	for _, r := range rev {
		fmt.Fprintf(&buf, "%s\t%s\n", r.Find, r.Replace)
	}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "reverse_table", buf.Bytes())
}

func TestReverse_Canonical(t *testing.T) {
	r := NewReverse(rules.Default())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"ka", "কা", "ka"},
		{"sentence", "আমার সোনার বাংলা", "amar sOnar bangla"},
		{"word", "ভাল", "bhal"},
		{"conjunct", "ক্ষ", "kkh"},
		{"nukta consonant", "ড়", "R"},
		{"digits", "১২৩", "123"},
		{"independent vowel cleaned", "অ", "o"},
		{"mixed script", "a-ক", "a-k"},
		{"emoji", "😀", "😀"},
		{"control characters", "\x00\n", "\x00\n"},
		{"country", "বাংলাদেশ", "bangladesh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Convert(tt.in))
		})
	}
}

func TestReverse_IterationsBounded(t *testing.T) {
	r := NewReverse(rules.Default())

	for _, in := range []string{
		"",
		"কা",
		"ক্ষ",
		"আমার সোনার বাংলা",
		"ধন্যবাদ",
		"😀😀😀",
		"শুভ নববর্ষ",
		"hello",
	} {
		out, stats := r.ConvertStats(in)
		n := utf8.RuneCountInString(in)
		assert.LessOrEqual(t, stats.Iterations, n, "input %q", in)
		assert.Equal(t, 2*n, stats.Ceiling)
		assert.False(t, stats.Truncated)
		if n > 0 {
			assert.NotEmpty(t, out)
		}
	}
}

func TestReverse_ConjunctTakesOneStep(t *testing.T) {
	r := NewReverse(rules.Default())
	_, stats := r.ConvertStats("ক্ষ")
	assert.Equal(t, 1, stats.Iterations)
}

func TestReverse_CeilingTruncates(t *testing.T) {
	r := NewReverse(rules.Default())

	out, stats := r.scan([]rune("কাকা"), 2)
	assert.True(t, stats.Truncated)
	assert.Equal(t, 2, stats.Iterations)
	assert.Equal(t, "ka", out)
}

func TestReverse_RulesCopy(t *testing.T) {
	r := NewReverse(rules.Default())
	got := r.Rules()
	got[0].Replace = "changed"
	assert.NotEqual(t, "changed", r.Rules()[0].Replace)
}
