// Package blackjack — session.go is the per-game state machine.
package blackjack

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Session states.
type State int

const (
	StateOpen State = iota
	StateFinished
)

// Outcomes of a finished session.
type Outcome string

const (
	OutcomeBlackjack Outcome = "blackjack" // natural 21, pays 3:2
	OutcomeWin       Outcome = "win"
	OutcomePush      Outcome = "push"
	OutcomeLoss      Outcome = "loss"
)

// Session errors.
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameOver          = errors.New("game already over")
	ErrNotYourGame       = errors.New("this is not your game")
	ErrAlreadyDoubled    = errors.New("double-down already used")
	ErrInsufficientFunds = errors.New("not enough coins to double down")
)

// Result is a snapshot handed back after every transition. Hands are
// copies; mutating them does not touch the session.
type Result struct {
	Finished    bool
	Player      []Card
	Dealer      []Card
	PlayerScore int
	DealerScore int
	Outcome     Outcome // set only when Finished
	Payout      int64   // total return, 0 on loss
	Wager       int64   // final wager, doubled after a double-down
}

// Session is one live blackjack game. All transitions lock the session
// mutex, so a double-clicked button cannot apply twice.
type Session struct {
	ID        string
	UserID    string
	ChannelID string

	mu        sync.Mutex
	draw      func() Card
	bet       int64
	player    []Card
	dealer    []Card
	state     State
	outcome   Outcome
	payout    int64
	doubled   bool
	createdAt time.Time
}

// newSession deals the opening hands. The natural-21 short-circuit is
// resolved here: the session may come back already Finished.
func newSession(id, userID, channelID string, bet int64, rng *rand.Rand) *Session {
	s := &Session{
		ID:        id,
		UserID:    userID,
		ChannelID: channelID,
		draw:      func() Card { return Draw(rng) },
		bet:       bet,
		createdAt: time.Now(),
	}
	s.player = []Card{s.draw(), s.draw()}
	s.dealer = []Card{s.draw(), s.draw()}
	s.resolveNatural()
	return s
}

// resolveNatural applies the opening-deal short-circuit: a player
// natural settles before any turn is taken.
func (s *Session) resolveNatural() {
	if !IsBlackjack(s.player) {
		return
	}
	if IsBlackjack(s.dealer) {
		s.finish(OutcomePush, s.bet)
		return
	}
	// 3:2 on the natural; total return floor(bet*2.5).
	s.finish(OutcomeBlackjack, s.bet*5/2)
}

// Hit draws one card for the player. Busting settles immediately; the
// dealer does not play against a busted hand.
func (s *Session) Hit() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return s.snapshot(), ErrGameOver
	}

	s.player = append(s.player, s.draw())
	if Score(s.player) > 21 {
		s.finish(OutcomeLoss, 0)
	}
	return s.snapshot(), nil
}

// Stand ends the player's turn: the dealer plays out and the hands are
// compared.
func (s *Session) Stand() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return s.snapshot(), ErrGameOver
	}

	s.dealerPlay()
	s.settle()
	return s.snapshot(), nil
}

// DoubleDown doubles the wager for exactly one more card, then stands.
// fundsOK must confirm the player can cover the second wager; the
// caller debits it only after this returns cleanly.
func (s *Session) DoubleDown(fundsOK func(extra int64) bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return s.snapshot(), ErrGameOver
	}
	if s.doubled {
		return s.snapshot(), ErrAlreadyDoubled
	}
	if !fundsOK(s.bet) {
		return s.snapshot(), ErrInsufficientFunds
	}

	s.doubled = true
	s.bet *= 2
	s.player = append(s.player, s.draw())

	if Score(s.player) > 21 {
		s.finish(OutcomeLoss, 0)
	} else {
		s.dealerPlay()
		s.settle()
	}
	return s.snapshot(), nil
}

// Timeout is the idle-timer transition: an implicit Stand. Firing on an
// already finished session is a no-op, so a duplicate timer is harmless.
func (s *Session) Timeout() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return s.snapshot(), false
	}

	s.dealerPlay()
	s.settle()
	return s.snapshot(), true
}

// Snapshot returns the current view without transitioning.
func (s *Session) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// dealerPlay draws for the dealer while the score is below 17.
func (s *Session) dealerPlay() {
	for Score(s.dealer) < 17 {
		s.dealer = append(s.dealer, s.draw())
	}
}

// settle compares non-busted hands per the payout matrix.
func (s *Session) settle() {
	player, dealer := Score(s.player), Score(s.dealer)
	switch {
	case dealer > 21 || player > dealer:
		s.finish(OutcomeWin, s.bet*2)
	case player == dealer:
		s.finish(OutcomePush, s.bet)
	default:
		s.finish(OutcomeLoss, 0)
	}
}

func (s *Session) finish(outcome Outcome, payout int64) {
	s.state = StateFinished
	s.outcome = outcome
	s.payout = payout
}

func (s *Session) snapshot() Result {
	return Result{
		Finished:    s.state == StateFinished,
		Player:      append([]Card(nil), s.player...),
		Dealer:      append([]Card(nil), s.dealer...),
		PlayerScore: Score(s.player),
		DealerScore: Score(s.dealer),
		Outcome:     s.outcome,
		Payout:      s.payout,
		Wager:       s.bet,
	}
}
