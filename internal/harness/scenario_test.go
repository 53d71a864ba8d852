package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
mode: orva
cases:
  - input: কা
    expect: ka
  - mode: avro
    input: ami
    expect: আমি
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	require.Len(t, scenario.Cases, 2)
	assert.Equal(t, "orva", scenario.Cases[0].ModeID(scenario))
	assert.Equal(t, "avro", scenario.Cases[1].ModeID(scenario))
	assert.Equal(t, "আমি", *scenario.Cases[1].Expect)
}

func TestLoadScenario_EmptyExpect(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: empty
description: "Empty expectation is allowed"
cases:
  - input: ""
    expect: ""
`)
	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "", *scenario.Cases[0].Expect)
	assert.Equal(t, DefaultMode, scenario.Cases[0].ModeID(scenario))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
cases: [{input: a, expect: a}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
cases: [{input: a, expect: a}]
`,
			wantErr: "description is required",
		},
		{
			name: "no cases",
			content: `
name: x
description: "x"
cases: []
`,
			wantErr: "cases list is required",
		},
		{
			name: "missing expect",
			content: `
name: x
description: "x"
cases: [{input: a}]
`,
			wantErr: "cases[0]: expect is required",
		},
		{
			name: "unknown scenario mode",
			content: `
name: x
description: "x"
mode: klingon
cases: [{input: a, expect: a}]
`,
			wantErr: `unsupported mode "klingon"`,
		},
		{
			name: "missing rules file",
			content: `
name: x
description: "x"
rules: nope.yaml
cases: [{input: a, expect: a}]
`,
			wantErr: "rules file not found",
		},
		{
			name: "unknown field",
			content: `
name: x
description: "x"
case: [{input: a, expect: a}]
`,
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "test.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_ResolvesRulesPath(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/custom_rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "tables", "tiny.yaml"), scenario.Rules)
}

func TestLoadDir(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"canonical", "custom_rules", "modes", "nfc"}, names)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files")
}
