package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/rules"
	"github.com/roach88/byakoron/internal/store"
)

// seedJournal writes one session with the given (mode, input, output)
// conversions.
func seedJournal(t *testing.T, dbPath, sessionID string, convs ...[3]string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	sess := store.Session{
		ID:            sessionID,
		Mode:          "avro",
		TableDigest:   rules.Default().Digest(),
		EngineVersion: engine.Version,
	}
	rec, err := st.NewRecorder(ctx, sess, nil, store.UUIDv7Generator{})
	require.NoError(t, err)
	for _, c := range convs {
		require.NoError(t, rec.Record(ctx, c[0], c[1], c[2]))
	}
}

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	out, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found")
}

func TestReplayNoDrift(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "s1",
		[3]string{"forward", "ami", "আমি"},
		[3]string{"reverse", "কা", "ka"},
	)

	out, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Session: s1")
	assert.Contains(t, out, "Conversions: 2")
	assert.Contains(t, out, "✓ All conversions replay identically")
}

func TestReplayDrift(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "s1", [3]string{"forward", "ka", "কা"})
	seedJournal(t, dbPath, "s2", [3]string{"forward", "ami", "আমি"})

	// A table without "m" changes the second session only.
	path := writeFile(t, "tiny.yaml", tinyRules)
	out, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "text", Rules: path}), "", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ Session: s1")
	assert.Contains(t, out, "✗ Session: s2")
	assert.Contains(t, out, "Recorded table:")
	assert.Contains(t, out, "✗ Replay drift detected")
}

func TestReplayDriftJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "s1", [3]string{"forward", "ami", "আমা"})

	out, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "json"}), "", "--db", dbPath)
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeDrift, resp.Error.Code)
	require.Len(t, resp.Data.Sessions, 1)
	require.Len(t, resp.Data.Sessions[0].Drift, 1)

	d := resp.Data.Sessions[0].Drift[0]
	assert.Equal(t, int64(1), d.Seq)
	assert.Equal(t, "আমা", d.Recorded)
	assert.Equal(t, "আমি", d.Replayed)
	assert.True(t, resp.Data.Sessions[0].SameTable)
}

func TestReplaySingleSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	seedJournal(t, dbPath, "s1", [3]string{"forward", "ka", "কা"})
	seedJournal(t, dbPath, "s2", [3]string{"forward", "ka", "wrong"})

	out, _, err := execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "", "--db", dbPath, "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 1 session(s)")

	_, _, err = execute(t, NewReplayCommand(&RootOptions{Format: "text"}), "", "--db", dbPath, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found")
}
