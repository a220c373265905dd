// Package economy — service.go holds the business logic for the coin
// ledger: validation, transfers, daily claims with streaks.
package economy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/config"
)

// Service manages the bot economy.
type Service struct {
	repo *Repository
	cfg  *config.Config
}

// NewService creates an economy service.
func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// GetBalance returns the user's current balance.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// AddCoins credits coins. Used for catch rewards, casino winnings,
// daily claims and operator grants.
func (s *Service) AddCoins(ctx context.Context, userID string, amount int64, txType, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.AddCoins(ctx, userID, amount, txType, description)
}

// SpendCoins debits coins. Used for casino bets and pack purchases.
func (s *Service) SpendCoins(ctx context.Context, userID string, amount int64, txType, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.SpendCoins(ctx, userID, amount, txType, description)
}

// Transfer moves coins from one user to another.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64) error {
	if fromUserID == toUserID {
		return common.ErrSelfTransfer
	}
	if amount <= 0 {
		return common.ErrInvalidAmount
	}

	if err := s.repo.Transfer(ctx, fromUserID, toUserID, amount); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     toUserID,
		"amount": amount,
	}).Info("Transfer completed")

	return nil
}

// ClaimDaily hands out the daily reward. A claim continues the streak
// when the previous claim was yesterday; the streak bonus caps at +50%.
// Returns (amount, streak).
func (s *Service) ClaimDaily(ctx context.Context, userID string) (int64, int, error) {
	today := common.UTCDate()

	last, err := s.repo.GetLastClaim(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if last != nil && !last.ClaimDate.Before(today) {
		return 0, 0, common.ErrAlreadyClaimed
	}

	yesterday := today.AddDate(0, 0, -1).Format("2006-01-02")
	streak := NextStreak(last, yesterday)
	amount := CalculateDailyReward(s.cfg.DailyClaimAmount, streak)

	if err := s.repo.InsertClaim(ctx, userID, today, amount, streak); err != nil {
		// Unique constraint on (user_id, claim_date) catches the race
		// between two concurrent claims.
		return 0, 0, common.ErrAlreadyClaimed
	}

	if err := s.repo.AddCoins(ctx, userID, amount, "daily_claim", "Daily claim"); err != nil {
		return 0, 0, err
	}

	return amount, streak, nil
}

// CreateBalance opens an account with the configured starting balance.
func (s *Service) CreateBalance(ctx context.Context, userID string) error {
	return s.repo.EnsureBalance(ctx, userID, s.cfg.EconomyStartingBalance)
}

// GetLeaderboard returns the top coin holders.
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	return s.repo.GetLeaderboard(ctx, limit)
}

// GetTransactions returns the user's latest ledger entries.
func (s *Service) GetTransactions(ctx context.Context, userID string, limit int) ([]*Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit)
}
