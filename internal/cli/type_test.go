package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/byakoron/internal/compose"
	"github.com/roach88/byakoron/internal/store"
)

func TestType_Sentence(t *testing.T) {
	out, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "text"}), "amar sonar bangla\nami")
	require.NoError(t, err)
	assert.Equal(t, "আমার সনার বাংলা\nআমি", out)
}

func TestType_Backspace(t *testing.T) {
	out, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "text"}), "kax\b ")
	require.NoError(t, err)
	assert.Equal(t, "কা ", out)
}

func TestType_OtherKeyAbandonsWord(t *testing.T) {
	out, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "text"}), "ka\tka")
	require.NoError(t, err)
	assert.Equal(t, "ka\tকা", out)
}

func TestType_JSONWithJournal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	out, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "json"}), "ami bhalo", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TypeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "আমি ভাল", resp.Data.Text)
	require.NotEmpty(t, resp.Data.Session)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	convs, err := st.ReadConversions(context.Background(), resp.Data.Session)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "bhalo", convs[1].Input)
	assert.Equal(t, "ভাল", convs[1].Output)
}

func TestType_WatchRequiresRules(t *testing.T) {
	_, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "text"}), "ka", "--watch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--watch requires a rule file")
}

func TestType_WatchUsesRuleFile(t *testing.T) {
	path := writeFile(t, "tiny.yaml", tinyRules)
	out, _, err := execute(t, NewTypeCommand(&RootOptions{Format: "text", Rules: path}), "kha ka", "--watch")
	require.NoError(t, err)
	assert.Equal(t, "খা কা", out)
}

func TestKeyActions(t *testing.T) {
	tests := []struct {
		in   rune
		want []compose.Action
	}{
		{'k', []compose.Action{compose.Char('k')}},
		{'.', []compose.Action{compose.Char('.')}},
		{' ', []compose.Action{compose.Space()}},
		{'\n', []compose.Action{compose.Commit(), compose.Other("\n")}},
		{'\r', nil},
		{'\b', []compose.Action{compose.Backspace()}},
		{0x7f, []compose.Action{compose.Backspace()}},
		{'\t', []compose.Action{compose.Other("\t")}},
		{'ক', []compose.Action{compose.Other("ক")}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyActions(tt.in), "rune %q", tt.in)
	}
}
