package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/solacehq/solace/internal/domain"
)

// SessionRepository implements ports.SessionRepository on libsql.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FormatSessionID renders a counter value as a session identifier,
// zero-padded so that ORDER BY id matches issuance order.
func FormatSessionID(seq uint64) string {
	return fmt.Sprintf("session_%012d", seq)
}

const sessionColumns = `id, principal, session_type, timestamp, duration, stress_before, stress_after, notes, pitch, tempo, emotion, stress_indicators, state`

// Insert bumps the session counter and writes the row in one SQL
// transaction, so the counter never runs ahead of the records.
func (r *SessionRepository) Insert(ctx context.Context, session *domain.TherapySession) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq uint64
	err = tx.QueryRowContext(ctx, `
		UPDATE counters SET value = value + 1 WHERE name = 'session_seq' RETURNING value
	`).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to advance session counter: %w", err)
	}

	id := FormatSessionID(seq)
	session.ID = id

	indicators, err := json.Marshal(session.Voice.StressIndicators)
	if err != nil {
		return "", fmt.Errorf("encoding stress indicators: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.Principal,
		session.SessionType,
		session.Timestamp.Format(time.RFC3339Nano),
		session.Duration,
		session.StressLevelBefore,
		session.StressLevelAfter,
		session.Notes,
		session.Voice.Pitch,
		session.Voice.Tempo,
		session.Voice.Emotion,
		string(indicators),
		string(session.State),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session insert: %w", err)
	}
	return id, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.TherapySession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions WHERE id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return scanSession(rows)
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.TherapySession) error {
	indicators, err := json.Marshal(session.Voice.StressIndicators)
	if err != nil {
		return fmt.Errorf("encoding stress indicators: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET principal = ?, session_type = ?, timestamp = ?, duration = ?,
		    stress_before = ?, stress_after = ?, notes = ?,
		    pitch = ?, tempo = ?, emotion = ?, stress_indicators = ?, state = ?
		WHERE id = ?
	`,
		session.Principal,
		session.SessionType,
		session.Timestamp.Format(time.RFC3339Nano),
		session.Duration,
		session.StressLevelBefore,
		session.StressLevelAfter,
		session.Notes,
		session.Voice.Pitch,
		session.Voice.Tempo,
		session.Voice.Emotion,
		string(indicators),
		string(session.State),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", session.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SessionRepository) ListByPrincipal(ctx context.Context, principal string) ([]*domain.TherapySession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions WHERE principal = ? ORDER BY id
	`, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.TherapySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func scanSession(rows *sql.Rows) (*domain.TherapySession, error) {
	var session domain.TherapySession
	var timestamp, indicators, state string

	err := rows.Scan(
		&session.ID,
		&session.Principal,
		&session.SessionType,
		&timestamp,
		&session.Duration,
		&session.StressLevelBefore,
		&session.StressLevelAfter,
		&session.Notes,
		&session.Voice.Pitch,
		&session.Voice.Tempo,
		&session.Voice.Emotion,
		&indicators,
		&state,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if session.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return nil, fmt.Errorf("corrupt timestamp %q: %w", timestamp, err)
	}
	if err := json.Unmarshal([]byte(indicators), &session.Voice.StressIndicators); err != nil {
		return nil, fmt.Errorf("corrupt stress_indicators %q: %w", indicators, err)
	}
	if session.Voice.StressIndicators == nil {
		session.Voice.StressIndicators = []string{}
	}
	session.State = domain.SessionState(state)
	return &session, nil
}
