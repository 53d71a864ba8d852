package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position selects which neighbour of a match a condition inspects.
type Position int

const (
	PositionUnknown Position = iota
	Prefix                   // character before the match
	Suffix                   // character after the match
)

func (p Position) String() string {
	switch p {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// ParsePosition maps a document position name to a Position.
// Unrecognized names yield PositionUnknown.
func ParsePosition(s string) Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return Prefix
	case "suffix":
		return Suffix
	default:
		return PositionUnknown
	}
}

// MarshalJSON encodes the position by name.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Scope is the character class a condition tests for.
type Scope int

const (
	ScopeUnknown Scope = iota
	ScopeVowel
	ScopeConsonant
	ScopePunctuation
	ScopeExact
)

func (s Scope) String() string {
	switch s {
	case ScopeVowel:
		return "vowel"
	case ScopeConsonant:
		return "consonant"
	case ScopePunctuation:
		return "punctuation"
	case ScopeExact:
		return "exact"
	default:
		return "unknown"
	}
}

// ParseScope maps a document scope name to a Scope. A leading "!" is the
// shorthand for a negated condition and is reported through negate.
func ParseScope(s string) (scope Scope, negate bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "!") {
		negate = true
		s = s[1:]
	}
	switch s {
	case "vowel":
		return ScopeVowel, negate
	case "consonant":
		return ScopeConsonant, negate
	case "punctuation":
		return ScopePunctuation, negate
	case "exact":
		return ScopeExact, negate
	default:
		return ScopeUnknown, negate
	}
}

// MarshalJSON encodes the scope by name.
func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Condition is a single context test against the neighbour of a match.
// Literal is only meaningful when Scope is ScopeExact.
type Condition struct {
	Position Position `json:"position"`
	Scope    Scope    `json:"scope"`
	Negate   bool     `json:"negate,omitempty"`
	Literal  string   `json:"literal,omitempty"`
}

// Valid reports whether the condition can ever be satisfied. Invalid
// conditions are kept in the table but always evaluate to false.
func (c Condition) Valid() bool {
	if c.Position != Prefix && c.Position != Suffix {
		return false
	}
	switch c.Scope {
	case ScopeVowel, ScopeConsonant, ScopePunctuation:
		return true
	case ScopeExact:
		return c.Literal != ""
	default:
		return false
	}
}

func (c Condition) String() string {
	neg := ""
	if c.Negate {
		neg = "!"
	}
	if c.Scope == ScopeExact {
		return fmt.Sprintf("%s:%s%s=%q", c.Position, neg, c.Scope, c.Literal)
	}
	return fmt.Sprintf("%s:%s%s", c.Position, neg, c.Scope)
}

// ConditionalRule replaces the default output of its rule when every one
// of its conditions holds.
type ConditionalRule struct {
	Conditions []Condition `json:"when"`
	Replace    string      `json:"replace"`
}

// Rule maps a literal to its output. Context entries are evaluated in order
// and the first satisfied one wins over Replace.
type Rule struct {
	Find    string            `json:"find"`
	Replace string            `json:"replace"`
	Context []ConditionalRule `json:"context,omitempty"`
}

// clone returns a deep copy so callers cannot reach table storage.
func (r Rule) clone() Rule {
	out := Rule{Find: r.Find, Replace: r.Replace}
	if len(r.Context) > 0 {
		out.Context = make([]ConditionalRule, len(r.Context))
		for i, cr := range r.Context {
			out.Context[i] = ConditionalRule{
				Conditions: append([]Condition(nil), cr.Conditions...),
				Replace:    cr.Replace,
			}
		}
	}
	return out
}
