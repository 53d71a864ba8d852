package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/byakoron/internal/translit"
)

// DefaultMode applies to cases when neither the case nor the scenario
// names a mode.
const DefaultMode = "avro"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is an optional rule document. Relative paths are resolved
	// against the scenario file. Empty selects the built-in table.
	Rules string `yaml:"rules,omitempty"`

	// Mode is the default mode identifier for cases.
	Mode string `yaml:"mode,omitempty"`

	// NFC normalizes reverse-mode input before scanning.
	NFC bool `yaml:"nfc,omitempty"`

	// Cases are run in order.
	Cases []Case `yaml:"cases"`
}

// Case is one input and its expected output.
type Case struct {
	Name string `yaml:"name,omitempty"`

	// Mode overrides the scenario mode.
	Mode string `yaml:"mode,omitempty"`

	Input string `yaml:"input"`

	// Expect is required; a pointer distinguishes "" from a missing key.
	Expect *string `yaml:"expect"`

	// Diagnostic, when set, must appear in the result's diagnostic.
	Diagnostic string `yaml:"diagnostic,omitempty"`
}

// ModeID returns the mode identifier the case runs in.
func (c Case) ModeID(s *Scenario) string {
	if c.Mode != "" {
		return c.Mode
	}
	if s.Mode != "" {
		return s.Mode
	}
	return DefaultMode
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	if s.Rules != "" {
		if _, err := os.Stat(s.Rules); os.IsNotExist(err) {
			return fmt.Errorf("rules file not found: %s", s.Rules)
		}
	}

	if s.Mode != "" {
		if _, ok := translit.ParseMode(s.Mode); !ok {
			return fmt.Errorf("unsupported mode %q", s.Mode)
		}
	}

	for i, c := range s.Cases {
		if c.Expect == nil {
			return fmt.Errorf("cases[%d]: expect is required", i)
		}
	}

	return nil
}
