package store

import (
	"context"
	"fmt"
)

// Recorder appends the conversions of one session. It satisfies the
// journal interface of the keystroke composer.
//
// Thread-safety: Record may be called from multiple goroutines; seq values
// come from an atomic clock.
type Recorder struct {
	store   *Store
	session Session
	digest  func() string
	ids     IDGenerator
	clock   *Clock
}

// NewRecorder opens (or resumes) a session and returns a recorder for it.
// digest is consulted on every record so a hot-reloaded table is attributed
// correctly; sess.TableDigest records the table the session started with.
func (s *Store) NewRecorder(ctx context.Context, sess Session, digest func() string, ids IDGenerator) (*Recorder, error) {
	if sess.ID == "" {
		return nil, fmt.Errorf("new recorder: session id is required")
	}
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	if digest == nil {
		fixed := sess.TableDigest
		digest = func() string { return fixed }
	}

	if err := s.WriteSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	last, err := s.LastSeq(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}

	return &Recorder{
		store:   s,
		session: sess,
		digest:  digest,
		ids:     ids,
		clock:   NewClockAt(last),
	}, nil
}

// Session returns the session being recorded.
func (r *Recorder) Session() Session {
	return r.session
}

// Record appends one conversion.
func (r *Recorder) Record(ctx context.Context, mode, input, output string) error {
	return r.store.WriteConversion(ctx, Conversion{
		ID:            r.ids.Generate(),
		SessionID:     r.session.ID,
		Seq:           r.clock.Next(),
		Mode:          mode,
		Input:         input,
		Output:        output,
		TableDigest:   r.digest(),
		EngineVersion: r.session.EngineVersion,
	})
}
