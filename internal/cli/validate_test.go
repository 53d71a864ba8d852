package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/byakoron/internal/rules"
)

func TestValidate_Valid(t *testing.T) {
	path := writeFile(t, "tiny.yaml", tinyRules)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Rules valid (3 rule(s))")
}

func TestValidate_ValidJSON(t *testing.T) {
	path := writeFile(t, "tiny.yaml", tinyRules)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), "", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Rules)
}

func TestValidate_OrderingWarnings(t *testing.T) {
	path := writeFile(t, "shadowed.yaml", `rules:
  - find: k
    replace: ক
  - find: kh
    replace: খ
`)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, rules.ErrRuleUnreachable)

	_, _, err = execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "", path, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidate_SchemaAndCompileErrors(t *testing.T) {
	path := writeFile(t, "bad.yaml", `rules:
  - find: ""
    replace: x
  - find: k
`)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, rules.ErrSchemaViolation)
	assert.Contains(t, out, rules.ErrRuleMissingFind)
	assert.Contains(t, out, rules.ErrRuleMissingReplace)
}

func TestValidate_InvalidJSON(t *testing.T) {
	path := writeFile(t, "bad.yaml", `rules: [{find: k}]`)
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), "", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.NotEmpty(t, resp.Data.Diagnostics)
	require.NotNil(t, resp.Error)
}

func TestValidate_MissingFile(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "", "/nonexistent/rules.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "Error [E005]")
}
