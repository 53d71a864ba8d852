package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession writes a session with fixed metadata.
func createTestSession(t *testing.T, s *Store, id string) Session {
	t.Helper()
	sess := Session{
		ID:            id,
		Mode:          "forward",
		TableDigest:   "digest-1",
		EngineVersion: "1.0.0",
	}
	if err := s.WriteSession(context.Background(), sess); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	return sess
}

// createTestConversion creates a conversion with minimal required fields.
func createTestConversion(id, session string, seq int64, input, output string) Conversion {
	return Conversion{
		ID:            id,
		SessionID:     session,
		Seq:           seq,
		Mode:          "forward",
		Input:         input,
		Output:        output,
		TableDigest:   "digest-1",
		EngineVersion: "1.0.0",
	}
}
