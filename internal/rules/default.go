package rules

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed default.yaml
var defaultDocument []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in Avro phonetic table. It is decoded on first
// use and shared for the life of the process.
func Default() *Table {
	defaultOnce.Do(func() {
		t, diags, err := ParseYAML(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("rules: embedded default table: %v", err))
		}
		if HasErrors(diags) {
			panic(fmt.Sprintf("rules: embedded default table: %v", diags[0]))
		}
		defaultTable = t
	})
	return defaultTable
}

// DefaultSource returns the embedded YAML document behind Default.
func DefaultSource() []byte {
	out := make([]byte, len(defaultDocument))
	copy(out, defaultDocument)
	return out
}
