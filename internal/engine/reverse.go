package engine

import (
	"sort"

	"github.com/roach88/byakoron/internal/rules"
)

// ReverseRule maps Bengali output back to the Latin literal that produced it.
type ReverseRule struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

// BuildReverse derives the reverse table from a forward table.
//
// Rules with an empty literal or an empty output, and the elision rule, are
// left out. The rest are inverted and stably sorted by descending rune
// length of the new literal, so among equal lengths the forward table order
// decides.
func BuildReverse(t *rules.Table) []ReverseRule {
	elision := t.Elision()
	var out []ReverseRule
	for _, r := range t.Rules() {
		if r.Find == "" || r.Replace == "" || r.Find == elision {
			continue
		}
		out = append(out, ReverseRule{Find: r.Replace, Replace: r.Find})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return runeLen(out[i].Find) > runeLen(out[j].Find)
	})
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

// Stats describes one reverse scan.
type Stats struct {
	Iterations int  `json:"iterations"`
	Ceiling    int  `json:"ceiling"`
	Truncated  bool `json:"truncated"`
}

type compiledReverse struct {
	find    []rune
	replace string
}

// Reverse converts Bengali text back to an approximate Latin spelling.
type Reverse struct {
	table   []ReverseRule
	rules   []compiledReverse
	byFirst map[rune][]int
}

// NewReverse builds and compiles the reverse table for t.
func NewReverse(t *rules.Table) *Reverse {
	table := BuildReverse(t)
	r := &Reverse{
		table:   table,
		rules:   make([]compiledReverse, 0, len(table)),
		byFirst: make(map[rune][]int),
	}
	for _, rr := range table {
		find := []rune(rr.Find)
		r.byFirst[find[0]] = append(r.byFirst[find[0]], len(r.rules))
		r.rules = append(r.rules, compiledReverse{find: find, replace: rr.Replace})
	}
	return r
}

// Rules returns a copy of the reverse table in match order.
func (r *Reverse) Rules() []ReverseRule {
	return append([]ReverseRule(nil), r.table...)
}

// Convert returns the Latin spelling of text.
func (r *Reverse) Convert(text string) string {
	out, _ := r.ConvertStats(text)
	return out
}

// ConvertStats is Convert plus the scan statistics.
//
// The scan is bounded at twice the input length. Every step consumes at
// least one rune, so the bound is never reached; if it were, the unscanned
// remainder would be dropped.
func (r *Reverse) ConvertStats(text string) (string, Stats) {
	src := []rune(text)
	return r.scan(src, 2*len(src))
}

func (r *Reverse) scan(src []rune, ceiling int) (string, Stats) {
	stats := Stats{Ceiling: ceiling}
	if len(src) == 0 {
		return "", stats
	}

	out := borrowBuffer()
	defer releaseBuffer(out)

	for cur := 0; cur < len(src); cur++ {
		if stats.Iterations >= ceiling {
			stats.Truncated = true
			break
		}
		stats.Iterations++

		replace, end, ok := r.match(src, cur)
		if !ok {
			out.WriteRune(src[cur])
			continue
		}
		out.WriteString(replace)
		cur = end - 1
	}
	return Cleanup(out.String()), stats
}

func (r *Reverse) match(src []rune, start int) (string, int, bool) {
	for _, idx := range r.byFirst[src[start]] {
		rr := &r.rules[idx]
		end := start + len(rr.find)
		if end > len(src) || !equalRunes(src[start:end], rr.find) {
			continue
		}
		return rr.replace, end, true
	}
	return "", 0, false
}
