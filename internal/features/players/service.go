// Package players — service.go holds the player registration logic.
package players

import (
	"context"
)

// Service manages known players.
type Service struct {
	repo *Repository
}

// NewService creates a players service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsurePlayer registers the user on first contact and keeps the
// username current afterwards. Called from the message handler, so it
// must stay cheap: one upsert.
func (s *Service) EnsurePlayer(ctx context.Context, userID, username string) error {
	return s.repo.Upsert(ctx, userID, username)
}

// Get returns a player's profile.
func (s *Service) Get(ctx context.Context, userID string) (*Player, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// RecordCatch updates catch statistics after a spawn is caught.
func (s *Service) RecordCatch(ctx context.Context, userID string, coinsEarned int64) error {
	return s.repo.RecordCatch(ctx, userID, coinsEarned)
}

// RecordPackOpened updates the pack counter after an opening.
func (s *Service) RecordPackOpened(ctx context.Context, userID string) error {
	return s.repo.RecordPackOpened(ctx, userID)
}
