// Package casino — service.go validates bets, moves the money and
// delegates the actual rolls to games.go.
package casino

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/config"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
)

// Service runs the casino.
type Service struct {
	repo    *Repository
	economy *economy.Service
	cfg     *config.Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a casino service.
func NewService(repo *Repository, economyService *economy.Service, cfg *config.Config, rng *rand.Rand) *Service {
	return &Service{repo: repo, economy: economyService, cfg: cfg, rng: rng}
}

// maxBetFor returns the per-game cap.
func (s *Service) maxBetFor(game string) int64 {
	switch game {
	case GameSlots:
		return s.cfg.CasinoSlotsMaxBet
	case GameCoinflip:
		return s.cfg.CasinoFlipMaxBet
	case GameDice:
		return s.cfg.CasinoDiceMaxBet
	case GameRoulette:
		return s.cfg.CasinoRouletteMax
	case GameBlackjack:
		return s.cfg.CasinoBlackjackMax
	}
	return s.cfg.CasinoMinBet
}

// CheckBet validates a bet against the casino switch and the game's
// limits. Exposed so blackjack can reuse the same gate.
func (s *Service) CheckBet(game string, bet int64) error {
	if !s.cfg.FeatureCasinoEnabled {
		return common.ErrCasinoDisabled
	}
	if bet < s.cfg.CasinoMinBet || bet > s.maxBetFor(game) {
		return common.ErrBetOutOfRange
	}
	return nil
}

// BetBounds returns (min, max) for a game, for usage messages.
func (s *Service) BetBounds(game string) (int64, int64) {
	return s.cfg.CasinoMinBet, s.maxBetFor(game)
}

// settle debits the bet, logs the round and credits any winnings. The
// daily lucky-game bonus is applied to winning payouts here so every
// game gets it uniformly.
func (s *Service) settle(ctx context.Context, userID, game string, bet, payout int64, detail string) (int64, bool, error) {
	if err := s.economy.SpendCoins(ctx, userID, bet, "casino_bet", game+" bet"); err != nil {
		return 0, false, err
	}

	payout, lucky := ApplyLuckyBonus(game, payout, time.Now().UTC())

	if payout > 0 {
		if err := s.economy.AddCoins(ctx, userID, payout, "casino_win", game+" winnings"); err != nil {
			// The bet is gone and the win is not paid; this needs an
			// operator, so log loudly.
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"game":    game,
				"payout":  payout,
			}).Error("casino payout failed after debit")
			return 0, false, err
		}
	}

	if err := s.repo.RecordGame(ctx, &GameRecord{
		UserID: userID,
		Game:   game,
		Bet:    bet,
		Payout: payout,
		Detail: detail,
	}); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to record casino game")
	}

	return payout, lucky, nil
}

// Slots plays one spin.
func (s *Service) Slots(ctx context.Context, userID string, bet int64) (SlotsResult, bool, error) {
	if err := s.CheckBet(GameSlots, bet); err != nil {
		return SlotsResult{}, false, err
	}

	s.mu.Lock()
	res := PlaySlots(s.rng, bet)
	s.mu.Unlock()

	payout, lucky, err := s.settle(ctx, userID, GameSlots, bet, res.Payout,
		res.Reels[0]+res.Reels[1]+res.Reels[2])
	if err != nil {
		return SlotsResult{}, false, err
	}
	res.Payout = payout
	return res, lucky, nil
}

// Coinflip plays one flip.
func (s *Service) Coinflip(ctx context.Context, userID string, bet int64, guess string) (CoinflipResult, bool, error) {
	if err := s.CheckBet(GameCoinflip, bet); err != nil {
		return CoinflipResult{}, false, err
	}

	s.mu.Lock()
	res, err := PlayCoinflip(s.rng, bet, guess)
	s.mu.Unlock()
	if err != nil {
		return CoinflipResult{}, false, err
	}

	payout, lucky, err := s.settle(ctx, userID, GameCoinflip, bet, res.Payout, res.Side)
	if err != nil {
		return CoinflipResult{}, false, err
	}
	res.Payout = payout
	return res, lucky, nil
}

// Dice plays one roll.
func (s *Service) Dice(ctx context.Context, userID string, bet int64, guess int) (DiceResult, bool, error) {
	if err := s.CheckBet(GameDice, bet); err != nil {
		return DiceResult{}, false, err
	}

	s.mu.Lock()
	res, err := PlayDice(s.rng, bet, guess)
	s.mu.Unlock()
	if err != nil {
		return DiceResult{}, false, err
	}

	payout, lucky, err := s.settle(ctx, userID, GameDice, bet, res.Payout, "rolled "+strconv.Itoa(res.Rolled))
	if err != nil {
		return DiceResult{}, false, err
	}
	res.Payout = payout
	return res, lucky, nil
}

// Roulette plays one spin.
func (s *Service) Roulette(ctx context.Context, userID string, bet int64, call string) (RouletteResult, bool, error) {
	if err := s.CheckBet(GameRoulette, bet); err != nil {
		return RouletteResult{}, false, err
	}

	s.mu.Lock()
	res, err := PlayRoulette(s.rng, bet, call)
	s.mu.Unlock()
	if err != nil {
		return RouletteResult{}, false, err
	}

	payout, lucky, err := s.settle(ctx, userID, GameRoulette, bet, res.Payout,
		strconv.Itoa(res.Number)+" "+res.Color)
	if err != nil {
		return RouletteResult{}, false, err
	}
	res.Payout = payout
	return res, lucky, nil
}

// RecordBlackjack logs a settled blackjack round into the shared log
// and stats. Blackjack moves its own money through the session flow.
func (s *Service) RecordBlackjack(ctx context.Context, userID string, bet, payout int64, detail string) {
	if err := s.repo.RecordGame(ctx, &GameRecord{
		UserID: userID,
		Game:   GameBlackjack,
		Bet:    bet,
		Payout: payout,
		Detail: detail,
	}); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to record blackjack game")
	}
}

// Stats returns one user's casino stats.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	return s.repo.GetStats(ctx, userID)
}

// Leaderboard returns the top winners.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	return s.repo.GetLeaderboard(ctx, limit)
}

// LuckyGameToday names the current daily bonus game.
func (s *Service) LuckyGameToday() string {
	return DailyLuckyGame(time.Now().UTC())
}
