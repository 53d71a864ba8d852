package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// ParseYAML builds a table from a YAML (or JSON) rule document.
func ParseYAML(data []byte) (*Table, []Diagnostic, error) {
	doc, err := parseYAMLDocument(data)
	if err != nil {
		return nil, nil, err
	}
	return Decode(doc)
}

// ParseCUE builds a table from a CUE rule document. The document uses the
// same top-level fields as the YAML form; filename is only used in errors.
func ParseCUE(data []byte, filename string) (*Table, []Diagnostic, error) {
	doc, err := parseCUEDocument(data, filename)
	if err != nil {
		return nil, nil, err
	}
	return Decode(doc)
}

// LoadFile reads a rule document, choosing the parser by extension:
// ".cue" files are CUE, everything else is parsed as YAML.
func LoadFile(path string) (*Table, []Diagnostic, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, nil, err
	}
	table, diags, err := Decode(doc)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, nil, err
	}
	return table, diags, nil
}

// readDocument loads a rule file into generic maps and slices.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrDocumentRead, Path: path, Message: "read rule file", Err: err}
	}

	var doc any
	if isCUE(path) {
		doc, err = parseCUEDocument(data, path)
	} else {
		doc, err = parseYAMLDocument(data)
	}
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return doc, nil
}

func isCUE(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

func parseYAMLDocument(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrDocumentInvalid, Message: "parse YAML", Err: err}
	}
	return doc, nil
}

func parseCUEDocument(data []byte, filename string) (any, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrDocumentInvalid, Message: "compile CUE", Err: err}
	}

	var doc map[string]any
	if err := value.Decode(&doc); err != nil {
		return nil, &LoadError{Code: ErrDocumentInvalid, Message: fmt.Sprintf("decode CUE value from %s", filename), Err: err}
	}
	return doc, nil
}
