// Package operator — service.go holds authentication: Argon2id password
// verification, brute-force limiting and session management.
package operator

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/config"
)

const (
	maxFailedAttempts = 3
	attemptWindow     = time.Hour
)

// Service manages operator authentication.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService creates an operator service.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Login verifies the password and opens a session. Three failed
// attempts within an hour lock the user out for the rest of it.
func (s *Service) Login(ctx context.Context, userID, password string) error {
	failures, err := s.repo.CountRecentFailures(ctx, userID, attemptWindow)
	if err != nil {
		return err
	}
	if failures >= maxFailedAttempts {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.OperatorPasswordHash)

	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to log login attempt")
	}

	if !match {
		return common.ErrWrongPassword
	}

	session := &Session{
		UserID:       userID,
		SessionToken: generateSecureToken(),
		ExpiresAt:    time.Now().Add(s.cfg.OperatorSessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}

	log.WithField("user_id", userID).Warn("Operator logged in")
	return nil
}

// Logout closes all of the user's sessions.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.repo.DeactivateSessions(ctx, userID)
}

// Require returns ErrNotOperator unless the user holds a live session.
// A passing check refreshes the idle clock.
func (s *Service) Require(ctx context.Context, userID string) error {
	session, err := s.repo.GetActiveSession(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return common.ErrNotOperator
	}
	if err := s.repo.UpdateActivity(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to bump session activity")
	}
	return nil
}

// verifyArgon2id checks a password against an encoded Argon2id hash.
// Hash format: $argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Malformed Argon2id hash in config")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("Failed to parse Argon2id parameters")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Failed to decode Argon2id salt")
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Failed to decode Argon2id hash")
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))

	// Constant-time compare guards against timing attacks.
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// generateSecureToken returns a cryptographically random session token.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
