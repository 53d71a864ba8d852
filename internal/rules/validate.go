package rules

import (
	"fmt"

	"github.com/armon/go-radix"
)

// Rule table error codes (E100-E199)
const (
	// Document errors (E100-E102)
	ErrDocumentRead       = "E100" // rule file could not be read
	ErrDocumentInvalid    = "E101" // document is not a decodable mapping
	ErrUnsupportedVersion = "E102" // document version not understood

	// Entry errors (E103-E108)
	ErrRuleMalformed      = "E103" // rule entry could not be decoded
	ErrRuleMissingFind    = "E104" // find missing or empty
	ErrRuleMissingReplace = "E105" // replace missing
	ErrConditionInvalid   = "E106" // condition can never be satisfied
	ErrContextMalformed   = "E107" // context entry dropped
	ErrSchemaViolation    = "E108" // document does not match rules.schema.json

	// Ordering errors (E110-E119)
	ErrRuleUnreachable = "E110" // an earlier literal is a prefix of this one
	ErrRuleDuplicate   = "E111" // literal already defined earlier
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic describes a problem found while loading or checking a table.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Index    int      `json:"index"` // position in the rules list, -1 for document-level problems
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (d Diagnostic) Error() string {
	loc := "document"
	if d.Index >= 0 {
		loc = fmt.Sprintf("rules[%d]", d.Index)
	}
	if d.Field != "" {
		loc += "." + d.Field
	}
	return fmt.Sprintf("[%s] %s: %s", d.Code, loc, d.Message)
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// LoadError is returned when a rule document cannot be turned into a table.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Validate checks the ordering invariant of a table: every literal must come
// before the shorter literals that are its prefixes. A rule shadowed by an
// earlier prefix, or by an earlier identical literal, can never match.
//
// Findings are warnings; the table remains usable as is.
func Validate(t *Table) []Diagnostic {
	var diags []Diagnostic
	seen := radix.New()

	for i, r := range t.rules {
		if first, ok := seen.Get(r.Find); ok {
			diags = append(diags, Diagnostic{
				Code:     ErrRuleDuplicate,
				Severity: SeverityWarning,
				Index:    i,
				Field:    "find",
				Message:  fmt.Sprintf("literal %q already defined by rules[%d]", r.Find, first.(int)),
			})
			continue
		}

		shadow := -1
		var shadowFind string
		seen.WalkPath(r.Find, func(s string, v interface{}) bool {
			if idx := v.(int); shadow < 0 || idx < shadow {
				shadow, shadowFind = idx, s
			}
			return false
		})
		if shadow >= 0 {
			diags = append(diags, Diagnostic{
				Code:     ErrRuleUnreachable,
				Severity: SeverityWarning,
				Index:    i,
				Field:    "find",
				Message:  fmt.Sprintf("literal %q is unreachable: rules[%d] %q matches first", r.Find, shadow, shadowFind),
			})
		}

		seen.Insert(r.Find, i)
	}

	return diags
}
