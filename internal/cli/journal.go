package cli

import (
	"context"
	"fmt"

	"github.com/roach88/byakoron/internal/engine"
	"github.com/roach88/byakoron/internal/store"
)

// journal is an open conversion journal with an active session.
type journal struct {
	store    *store.Store
	recorder *store.Recorder
}

// openJournal opens the database at path and starts (or resumes) a
// session. An empty sessionID starts a new session with a UUIDv7 ID.
func openJournal(ctx context.Context, path, sessionID, mode string, digest func() string) (*journal, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: failed to open journal", ErrCodeJournalFailed), err)
	}
	ids := store.UUIDv7Generator{}
	if sessionID == "" {
		sessionID = ids.Generate()
	}

	sess := store.Session{
		ID:            sessionID,
		Mode:          mode,
		TableDigest:   digest(),
		EngineVersion: engine.Version,
	}
	rec, err := st.NewRecorder(ctx, sess, digest, ids)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("%s: failed to start session", ErrCodeJournalFailed), err)
	}
	return &journal{store: st, recorder: rec}, nil
}

func (j *journal) Close() error {
	if j == nil {
		return nil
	}
	return j.store.Close()
}
