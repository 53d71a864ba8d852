package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DefaultElision is the literal excluded from the reverse table. In the Avro
// scheme "o" normally produces nothing (the inherent vowel), so inverting it
// would turn every empty output into an "o".
const DefaultElision = "o"

// DocumentVersion is the rule document format understood by this package.
const DocumentVersion = 1

// DomainTable separates table digests from any other hash in the system.
const DomainTable = "byakoron/table/v1"

// Table is an ordered, immutable rule set.
type Table struct {
	rules   []Rule
	elision string
}

// NewTable copies rules into a new table. An empty elision selects
// DefaultElision.
func NewTable(rules []Rule, elision string) *Table {
	if elision == "" {
		elision = DefaultElision
	}
	t := &Table{
		rules:   make([]Rule, len(rules)),
		elision: elision,
	}
	for i, r := range rules {
		t.rules[i] = r.clone()
	}
	return t
}

// Rules returns a copy of the rules in priority order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Elision returns the literal excluded from the reverse table.
func (t *Table) Elision() string {
	return t.elision
}

// canonicalTable is the serialized form of a table.
type canonicalTable struct {
	Version int    `json:"version"`
	Elision string `json:"elision"`
	Rules   []Rule `json:"rules"`
}

// MarshalJSON emits the canonical document form of the table. Field order
// is fixed by the struct definitions, so equal tables marshal identically.
func (t *Table) MarshalJSON() ([]byte, error) {
	rules := t.rules
	if rules == nil {
		rules = []Rule{}
	}
	return json.Marshal(canonicalTable{
		Version: DocumentVersion,
		Elision: t.elision,
		Rules:   rules,
	})
}

// Digest returns a content hash identifying the table.
// Format: hex(SHA256(DomainTable + 0x00 + canonical JSON))
func (t *Table) Digest() string {
	data, err := t.MarshalJSON()
	if err != nil {
		// Rules contain only strings, bools and enums.
		panic(fmt.Sprintf("rules: marshal table: %v", err))
	}
	return hashWithDomain(DomainTable, data)
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
