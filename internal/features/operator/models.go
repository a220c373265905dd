// Package operator gates the privileged commands: grants and pack
// administration. models.go describes sessions and login attempts.
package operator

import "time"

// Session is one authenticated operator login.
type Session struct {
	ID              int64     `db:"id"`
	UserID          string    `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}
