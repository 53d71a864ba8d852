package store

import (
	"context"
	"fmt"
)

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - reopening a session is
// not an error.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mode, table_digest, engine_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.Mode, sess.TableDigest, sess.EngineVersion)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteConversion appends a conversion record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// A second record with the same (session, seq) is a constraint violation.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteConversion(ctx context.Context, c Conversion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversions
		(id, session_id, seq, mode, input, output, table_digest, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.SessionID,
		c.Seq,
		c.Mode,
		c.Input,
		c.Output,
		c.TableDigest,
		c.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write conversion: %w", err)
	}
	return nil
}
