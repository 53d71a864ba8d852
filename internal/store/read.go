package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID has no record.
var ErrSessionNotFound = errors.New("session not found")

// ReadSession returns the session record.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, mode, table_digest, engine_version
		FROM sessions
		WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Mode, &sess.TableDigest, &sess.EngineVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("read session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sess, nil
}

// ReadConversions returns all conversions of a session.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has no conversions.
func (s *Store) ReadConversions(ctx context.Context, sessionID string) ([]Conversion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, mode, input, output, table_digest, engine_version
		FROM conversions
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	conversions := []Conversion{}
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(
			&c.ID,
			&c.SessionID,
			&c.Seq,
			&c.Mode,
			&c.Input,
			&c.Output,
			&c.TableDigest,
			&c.EngineVersion,
		); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		conversions = append(conversions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return conversions, nil
}

// ListSessions returns every session with its conversion count, oldest first.
// UUIDv7 session IDs sort by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.mode, s.table_digest, s.engine_version,
		       COUNT(c.id), COALESCE(MAX(c.seq), 0)
		FROM sessions s
		LEFT JOIN conversions c ON c.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.Mode,
			&sum.TableDigest,
			&sum.EngineVersion,
			&sum.Conversions,
			&sum.LastSeq,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest seq recorded for a session, or 0.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM conversions WHERE session_id = ?
	`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
