package rules

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// rawDocument is the loosely typed top level of a rule document.
// Rule entries stay untyped so one bad entry cannot reject the document.
type rawDocument struct {
	Version int     `mapstructure:"version"`
	Elision *string `mapstructure:"elision"`
	Rules   []any   `mapstructure:"rules"`
}

type rawRule struct {
	Find    *string `mapstructure:"find"`
	Replace *string `mapstructure:"replace"`
	Context []any   `mapstructure:"context"`
}

type rawContext struct {
	When    []any   `mapstructure:"when"`
	Replace *string `mapstructure:"replace"`
}

type rawCondition struct {
	Position string `mapstructure:"position"`
	Scope    string `mapstructure:"scope"`
	Negate   bool   `mapstructure:"negate"`
	Literal  string `mapstructure:"literal"`
}

// Decode builds a table from a document already parsed into generic maps
// and slices (the shape produced by the YAML and CUE decoders).
//
// Malformed rule entries are skipped and reported as diagnostics; the
// returned error is reserved for documents that cannot be read at all.
func Decode(doc any) (*Table, []Diagnostic, error) {
	if doc == nil {
		return nil, nil, &LoadError{Code: ErrDocumentInvalid, Message: "empty rule document"}
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, nil, &LoadError{Code: ErrDocumentInvalid, Message: fmt.Sprintf("rule document must be a mapping, got %T", doc)}
	}

	var raw rawDocument
	if err := decodeInto(doc, &raw); err != nil {
		return nil, nil, &LoadError{Code: ErrDocumentInvalid, Message: "decode rule document", Err: err}
	}
	if raw.Version != 0 && raw.Version != DocumentVersion {
		return nil, nil, &LoadError{
			Code:    ErrUnsupportedVersion,
			Message: fmt.Sprintf("unsupported rule document version %d (want %d)", raw.Version, DocumentVersion),
		}
	}

	elision := DefaultElision
	if raw.Elision != nil && *raw.Elision != "" {
		elision = *raw.Elision
	}

	var diags []Diagnostic
	rules := make([]Rule, 0, len(raw.Rules))
	for i, entry := range raw.Rules {
		r, ruleDiags, ok := decodeRule(i, entry)
		diags = append(diags, ruleDiags...)
		if ok {
			rules = append(rules, r)
		}
	}

	return NewTable(rules, elision), diags, nil
}

// decodeRule converts one document entry. ok is false when the entry must be
// skipped; condition problems are reported but keep the rule.
func decodeRule(index int, entry any) (Rule, []Diagnostic, bool) {
	var raw rawRule
	if err := decodeInto(entry, &raw); err != nil {
		return Rule{}, []Diagnostic{{
			Code:     ErrRuleMalformed,
			Severity: SeverityError,
			Index:    index,
			Message:  fmt.Sprintf("rule skipped: %v", err),
		}}, false
	}
	if raw.Find == nil || *raw.Find == "" {
		return Rule{}, []Diagnostic{{
			Code:     ErrRuleMissingFind,
			Severity: SeverityError,
			Index:    index,
			Field:    "find",
			Message:  "rule skipped: find is required and must be non-empty",
		}}, false
	}
	if raw.Replace == nil {
		return Rule{}, []Diagnostic{{
			Code:     ErrRuleMissingReplace,
			Severity: SeverityError,
			Index:    index,
			Field:    "replace",
			Message:  fmt.Sprintf("rule %q skipped: replace is required", *raw.Find),
		}}, false
	}

	rule := Rule{Find: *raw.Find, Replace: *raw.Replace}
	var diags []Diagnostic
	for j, entry := range raw.Context {
		field := fmt.Sprintf("context[%d]", j)
		var rc rawContext
		if err := decodeInto(entry, &rc); err != nil {
			diags = append(diags, Diagnostic{
				Code:     ErrContextMalformed,
				Severity: SeverityWarning,
				Index:    index,
				Field:    field,
				Message:  fmt.Sprintf("context entry dropped: %v", err),
			})
			continue
		}
		if rc.Replace == nil || len(rc.When) == 0 {
			diags = append(diags, Diagnostic{
				Code:     ErrContextMalformed,
				Severity: SeverityWarning,
				Index:    index,
				Field:    field,
				Message:  "context entry dropped: needs a non-empty when list and a replace",
			})
			continue
		}

		cr := ConditionalRule{Replace: *rc.Replace}
		for k, c := range rc.When {
			cond, err := decodeCondition(c)
			if err != nil {
				diags = append(diags, Diagnostic{
					Code:     ErrConditionInvalid,
					Severity: SeverityWarning,
					Index:    index,
					Field:    fmt.Sprintf("%s.when[%d]", field, k),
					Message:  fmt.Sprintf("condition can never hold: %v", err),
				})
			}
			cr.Conditions = append(cr.Conditions, cond)
		}
		rule.Context = append(rule.Context, cr)
	}

	return rule, diags, true
}

// decodeCondition always returns a condition. When err is non-nil the
// condition is invalid and evaluates to false.
func decodeCondition(entry any) (Condition, error) {
	var raw rawCondition
	if err := decodeInto(entry, &raw); err != nil {
		return Condition{}, err
	}

	scope, shorthand := ParseScope(raw.Scope)
	cond := Condition{
		Position: ParsePosition(raw.Position),
		Scope:    scope,
		Negate:   raw.Negate != shorthand,
		Literal:  raw.Literal,
	}

	switch {
	case cond.Position == PositionUnknown:
		return cond, fmt.Errorf("unknown position %q", raw.Position)
	case cond.Scope == ScopeUnknown:
		return cond, fmt.Errorf("unknown scope %q", raw.Scope)
	case cond.Scope == ScopeExact && cond.Literal == "":
		return cond, fmt.Errorf("exact scope requires a literal")
	}
	return cond, nil
}

func decodeInto(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
