package engine

import (
	"github.com/roach88/byakoron/internal/charclass"
	"github.com/roach88/byakoron/internal/rules"
)

type compiledRule struct {
	find    []rune
	replace string
	context []compiledContext
}

type compiledContext struct {
	conditions []rules.Condition
	replace    string
}

// Forward converts normalized Latin input to Bengali using one rule table.
type Forward struct {
	rules []compiledRule
	// byFirst lists rule indexes by the first rune of their literal, in
	// table order. Only those rules can match at a given position.
	byFirst map[rune][]int
}

// NewForward compiles a table for scanning.
func NewForward(t *rules.Table) *Forward {
	src := t.Rules()
	f := &Forward{
		rules:   make([]compiledRule, 0, len(src)),
		byFirst: make(map[rune][]int),
	}
	for _, r := range src {
		find := []rune(r.Find)
		if len(find) == 0 {
			continue
		}
		cr := compiledRule{find: find, replace: r.Replace}
		for _, c := range r.Context {
			cr.context = append(cr.context, compiledContext{
				conditions: c.Conditions,
				replace:    c.Replace,
			})
		}
		f.byFirst[find[0]] = append(f.byFirst[find[0]], len(f.rules))
		f.rules = append(f.rules, cr)
	}
	return f
}

// Convert scans text, which should already be normalized, and returns the
// Bengali output.
func (f *Forward) Convert(text string) string {
	if text == "" {
		return ""
	}
	src := []rune(text)
	out := borrowBuffer()
	defer releaseBuffer(out)

	for cur := 0; cur < len(src); cur++ {
		replace, end, ok := f.match(src, cur)
		if !ok {
			out.WriteRune(src[cur])
			continue
		}
		out.WriteString(replace)
		cur = end - 1
	}
	return out.String()
}

// match finds the first rule whose literal starts at src[start] and returns
// its output and the end of the match.
func (f *Forward) match(src []rune, start int) (string, int, bool) {
	for _, idx := range f.byFirst[src[start]] {
		r := &f.rules[idx]
		end := start + len(r.find)
		if end > len(src) || !equalRunes(src[start:end], r.find) {
			continue
		}
		for _, c := range r.context {
			if allHold(c.conditions, src, start, end) {
				return c.replace, end, true
			}
		}
		return r.replace, end, true
	}
	return "", 0, false
}

func allHold(conds []rules.Condition, src []rune, start, end int) bool {
	for _, c := range conds {
		if !holds(c, src, start, end) {
			return false
		}
	}
	return true
}

// holds evaluates one condition for the match src[start:end].
//
// Prefix conditions look at src[start-1] and suffix conditions at src[end].
// When that neighbour does not exist the vowel and consonant tests fail
// (and so succeed when negated), while the punctuation test succeeds: the
// edge of the text behaves like a word boundary.
func holds(c rules.Condition, src []rune, start, end int) bool {
	if !c.Valid() {
		return false
	}

	if c.Scope == rules.ScopeExact {
		n := len([]rune(c.Literal))
		if c.Position == rules.Prefix {
			return charclass.IsExact(c.Literal, src, start-n, start, c.Negate)
		}
		return charclass.IsExact(c.Literal, src, end, end+n, c.Negate)
	}

	idx := end
	if c.Position == rules.Prefix {
		idx = start - 1
	}
	inBounds := idx >= 0 && idx < len(src)

	var ok bool
	switch c.Scope {
	case rules.ScopeVowel:
		ok = inBounds && charclass.IsVowel(src[idx])
	case rules.ScopeConsonant:
		ok = inBounds && charclass.IsConsonant(src[idx])
	case rules.ScopePunctuation:
		ok = !inBounds || charclass.IsPunctuation(src[idx])
	}
	return ok != c.Negate
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
