package rules

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules: [{find: "k", replace: "ক"}]`), 0644))

	w, err := NewWatcher(path, quietLogger())
	require.NoError(t, err)
	defer w.Close()

	first := w.Table()
	require.Equal(t, 1, first.Len())

	var seen *Table
	w.OnChange(func(t *Table) { seen = t })

	require.NoError(t, os.WriteFile(path, []byte(`rules: [{find: "kh", replace: "খ"}, {find: "k", replace: "ক"}]`), 0644))
	require.NoError(t, w.Reload())

	assert.Equal(t, 2, w.Table().Len())
	assert.Same(t, w.Table(), seen)
	assert.Equal(t, 1, first.Len(), "previous table is untouched")
}

func TestWatcher_FailedReloadKeepsTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules: [{find: "k", replace: "ক"}]`), 0644))

	w, err := NewWatcher(path, quietLogger())
	require.NoError(t, err)
	defer w.Close()
	before := w.Table()

	require.NoError(t, os.WriteFile(path, []byte(`rules: [`), 0644))
	require.Error(t, w.Reload())
	assert.Same(t, before, w.Table())
}

func TestWatcher_FollowsFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules: [{find: "k", replace: "ক"}]`), 0644))

	w, err := NewWatcher(path, quietLogger())
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(path, []byte(`rules: [{find: "g", replace: "গ"}, {find: "k", replace: "ক"}]`), 0644))

	require.Eventually(t, func() bool {
		return w.Table().Len() == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewWatcher_MissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope.yaml"), quietLogger())
	require.Error(t, err)
}
