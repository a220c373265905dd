// Package operator — repository.go works with the operator_sessions and
// operator_login_attempts tables.
package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository works with the operator tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates an operator repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSession stores a fresh login.
func (r *Repository) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO operator_sessions (user_id, session_token, expires_at, is_active)
		VALUES ($1, $2, $3, TRUE)
	`
	if _, err := r.db.Exec(ctx, query, session.UserID, session.SessionToken, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetActiveSession returns the user's live session, or nil.
func (r *Repository) GetActiveSession(ctx context.Context, userID string) (*Session, error) {
	query := `
		SELECT id, user_id, session_token, authenticated_at, expires_at, last_activity, is_active
		FROM operator_sessions
		WHERE user_id = $1 AND is_active = TRUE AND expires_at > NOW()
		ORDER BY authenticated_at DESC
		LIMIT 1
	`
	var s Session
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.SessionToken, &s.AuthenticatedAt,
		&s.ExpiresAt, &s.LastActivity, &s.IsActive,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return &s, nil
}

// DeactivateSessions logs the user out everywhere.
func (r *Repository) DeactivateSessions(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE operator_sessions SET is_active = FALSE WHERE user_id = $1`, userID)
	return err
}

// UpdateActivity bumps the idle clock on the live session.
func (r *Repository) UpdateActivity(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE operator_sessions SET last_activity = NOW() WHERE user_id = $1 AND is_active = TRUE`, userID)
	return err
}

// LogAttempt records one login attempt.
func (r *Repository) LogAttempt(ctx context.Context, userID string, success bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO operator_login_attempts (user_id, success) VALUES ($1, $2)`, userID, success)
	return err
}

// CountRecentFailures returns failed attempts within the window.
func (r *Repository) CountRecentFailures(ctx context.Context, userID string, window time.Duration) (int, error) {
	since := time.Now().Add(-window)
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM operator_login_attempts
		WHERE user_id = $1 AND success = FALSE AND attempt_time >= $2
	`, userID, since).Scan(&count)
	return count, err
}
