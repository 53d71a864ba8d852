package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed rules.schema.json
var schemaData []byte

const schemaURL = "rules.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func ruleSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks a rule file against the rule document schema.
// Unlike LoadFile, which skips bad entries, this is a strict lint: every
// schema violation is reported as an error diagnostic.
func ValidateDocument(path string) ([]Diagnostic, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return validateAgainstSchema(doc)
}

func validateAgainstSchema(doc any) ([]Diagnostic, error) {
	schema, err := ruleSchema()
	if err != nil {
		return nil, err
	}

	// The schema validator wants plain JSON values.
	data, err := json.Marshal(doc)
	if err != nil {
		return []Diagnostic{{
			Code:     ErrDocumentInvalid,
			Severity: SeverityError,
			Index:    -1,
			Message:  fmt.Sprintf("document is not representable as JSON: %v", err),
		}}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("re-decode document: %w", err)
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var diags []Diagnostic
	for _, leaf := range schemaLeaves(verr) {
		index, field := splitInstanceLocation(leaf.InstanceLocation)
		diags = append(diags, Diagnostic{
			Code:     ErrSchemaViolation,
			Severity: SeverityError,
			Index:    index,
			Field:    field,
			Message:  leaf.Message,
		})
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Index < diags[j].Index
	})
	return diags, nil
}

// schemaLeaves flattens a validation error tree to its most specific causes.
func schemaLeaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, schemaLeaves(c)...)
	}
	return out
}

// splitInstanceLocation turns "/rules/3/context/0" into (3, "context.0").
func splitInstanceLocation(loc string) (int, string) {
	parts := strings.Split(strings.Trim(loc, "/"), "/")
	if len(parts) >= 2 && parts[0] == "rules" {
		if idx, err := strconv.Atoi(parts[1]); err == nil {
			return idx, strings.Join(parts[2:], ".")
		}
	}
	if len(parts) == 1 && parts[0] == "" {
		return -1, ""
	}
	return -1, strings.Join(parts, ".")
}
