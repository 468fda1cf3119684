package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/solacehq/solace/internal/domain"
)

// ProfileRepository implements ports.ProfileRepository on libsql.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (principal, username, created_at, last_active, session_count, total_sessions)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		profile.Principal,
		profile.Username,
		profile.CreatedAt.Format(time.RFC3339Nano),
		profile.LastActive.Format(time.RFC3339Nano),
		profile.SessionCount,
		profile.TotalSessions,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile %s: %w", profile.Principal, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, principal string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT principal, username, created_at, last_active, session_count, total_sessions
		FROM profiles WHERE principal = ?
	`, principal)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", principal, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET username = ?, created_at = ?, last_active = ?, session_count = ?, total_sessions = ?
		WHERE principal = ?
	`,
		profile.Username,
		profile.CreatedAt.Format(time.RFC3339Nano),
		profile.LastActive.Format(time.RFC3339Nano),
		profile.SessionCount,
		profile.TotalSessions,
		profile.Principal,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s: %w", profile.Principal, domain.ErrNotFound)
	}
	return nil
}

func (r *ProfileRepository) Count(ctx context.Context) (uint64, error) {
	var n uint64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}

func scanProfile(row *sql.Row) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var createdAt, lastActive string

	err := row.Scan(
		&profile.Principal,
		&profile.Username,
		&createdAt,
		&lastActive,
		&profile.SessionCount,
		&profile.TotalSessions,
	)
	if err != nil {
		return nil, err
	}

	if profile.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	if profile.LastActive, err = time.Parse(time.RFC3339Nano, lastActive); err != nil {
		return nil, fmt.Errorf("corrupt last_active %q: %w", lastActive, err)
	}
	return &profile, nil
}

// isUniqueViolation detects sqlite primary-key violations without
// binding to a driver-specific error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
