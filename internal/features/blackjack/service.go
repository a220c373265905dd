// Package blackjack — service.go owns the registry, moves the money and
// arms the idle timers.
package blackjack

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/config"
	"github.com/joelcarspotz/carfigures/internal/features/casino"
	"github.com/joelcarspotz/carfigures/internal/features/economy"
)

// Settled is pushed to the announcer when an idle timer settles a game
// the player walked away from.
type Settled struct {
	ChannelID string
	UserID    string
	Result    Result
}

// Service runs blackjack games end to end: bet gate, debit, session
// transitions, payout and stats.
type Service struct {
	registry *Registry
	economy  *economy.Service
	casino   *casino.Service
	cfg      *config.Config

	mu  sync.Mutex
	rng *rand.Rand

	timers sync.Map // session id -> *time.Timer

	// OnTimeout, when set, is called after an idle timer settles a
	// session. The bot wires this to a channel announcement.
	OnTimeout func(Settled)
}

// NewService creates a blackjack service.
func NewService(registry *Registry, economyService *economy.Service, casinoService *casino.Service, cfg *config.Config, rng *rand.Rand) *Service {
	return &Service{
		registry: registry,
		economy:  economyService,
		casino:   casinoService,
		cfg:      cfg,
		rng:      rng,
	}
}

// Start opens a game: validates and debits the bet, deals, and either
// settles a natural on the spot or arms the idle timer.
func (s *Service) Start(ctx context.Context, userID, channelID string, bet int64) (*Session, Result, error) {
	if err := s.casino.CheckBet(casino.GameBlackjack, bet); err != nil {
		return nil, Result{}, err
	}
	if _, busy := s.registry.GetByUser(userID); busy {
		return nil, Result{}, common.ErrGameInProgress
	}

	if err := s.economy.SpendCoins(ctx, userID, bet, "casino_bet", "blackjack bet"); err != nil {
		return nil, Result{}, err
	}

	session, ok := s.registry.Create(userID, channelID, bet, s.sessionRNG())
	if !ok {
		// Raced another start from the same player; refund.
		if err := s.economy.AddCoins(ctx, userID, bet, "casino_refund", "blackjack bet refund"); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("blackjack refund failed")
		}
		return nil, Result{}, common.ErrGameInProgress
	}

	res := session.Snapshot()
	if res.Finished {
		// Natural on the deal.
		s.payOut(ctx, session, res)
		return session, res, nil
	}

	s.armTimer(session)

	log.WithFields(log.Fields{
		"session_id": session.ID,
		"user_id":    userID,
		"bet":        bet,
	}).Info("Blackjack game started")

	return session, res, nil
}

// Hit applies a hit on the caller's live game.
func (s *Service) Hit(ctx context.Context, userID string) (Result, error) {
	session, err := s.sessionFor(userID)
	if err != nil {
		return Result{}, err
	}

	res, err := session.Hit()
	if err != nil {
		return res, err
	}
	if res.Finished {
		s.settleAndClose(ctx, session, res)
	}
	return res, nil
}

// Stand applies a stand on the caller's live game.
func (s *Service) Stand(ctx context.Context, userID string) (Result, error) {
	session, err := s.sessionFor(userID)
	if err != nil {
		return Result{}, err
	}

	res, err := session.Stand()
	if err != nil {
		return res, err
	}
	s.settleAndClose(ctx, session, res)
	return res, nil
}

// DoubleDown doubles the caller's wager. The balance check runs inside
// the session lock; the extra debit happens right after, before the
// payout, so the ledger sees both wagers.
func (s *Service) DoubleDown(ctx context.Context, userID string) (Result, error) {
	session, err := s.sessionFor(userID)
	if err != nil {
		return Result{}, err
	}

	originalBet := session.Snapshot().Wager

	res, err := session.DoubleDown(func(extra int64) bool {
		balance, balErr := s.economy.GetBalance(ctx, userID)
		if balErr != nil {
			log.WithError(balErr).WithField("user_id", userID).Error("double-down balance check failed")
			return false
		}
		return balance >= extra
	})
	if err != nil {
		return res, err
	}

	if err := s.economy.SpendCoins(ctx, userID, originalBet, "casino_bet", "blackjack double down"); err != nil {
		// The funds check passed a moment ago; a failure here is a real
		// fault, not a player error. The round still settles.
		log.WithError(err).WithField("user_id", userID).Error("double-down debit failed")
	}

	s.settleAndClose(ctx, session, res)
	return res, nil
}

// sessionFor resolves the caller's live game.
func (s *Service) sessionFor(userID string) (*Session, error) {
	session, ok := s.registry.GetByUser(userID)
	if !ok {
		return nil, ErrGameNotFound
	}
	if session.UserID != userID {
		return nil, ErrNotYourGame
	}
	return session, nil
}

// armTimer starts the one-shot idle timer. The transition itself checks
// the session state, so a timer racing a player action settles nothing
// twice.
func (s *Service) armTimer(session *Session) {
	timer := time.AfterFunc(s.cfg.BlackjackTimeout, func() {
		res, fired := session.Timeout()
		if !fired {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.settleAndClose(ctx, session, res)

		log.WithFields(log.Fields{
			"session_id": session.ID,
			"user_id":    session.UserID,
			"outcome":    res.Outcome,
		}).Info("Blackjack game timed out")

		if s.OnTimeout != nil {
			s.OnTimeout(Settled{
				ChannelID: session.ChannelID,
				UserID:    session.UserID,
				Result:    res,
			})
		}
	})
	s.timers.Store(session.ID, timer)
}

// settleAndClose pays any winnings, records the round and removes the
// session from the live set.
func (s *Service) settleAndClose(ctx context.Context, session *Session, res Result) {
	if t, ok := s.timers.LoadAndDelete(session.ID); ok {
		t.(*time.Timer).Stop()
	}
	s.registry.Remove(session.ID)

	s.payOut(ctx, session, res)
}

func (s *Service) payOut(ctx context.Context, session *Session, res Result) {
	if res.Payout > 0 {
		if err := s.economy.AddCoins(ctx, session.UserID, res.Payout, "casino_win", "blackjack "+string(res.Outcome)); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"session_id": session.ID,
				"user_id":    session.UserID,
				"payout":     res.Payout,
			}).Error("blackjack payout failed")
		}
	}

	s.casino.RecordBlackjack(ctx, session.UserID, res.Wager, res.Payout,
		string(res.Outcome)+" "+HandString(res.Player)+" vs "+HandString(res.Dealer))
}

// sessionRNG derives a private generator per session so concurrent
// games never share a rand source.
func (s *Service) sessionRNG() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}
