package blackjack

import (
	"testing"
)

// stackedSession builds an open session that deals from a fixed list of
// cards, so every transition is deterministic.
func stackedSession(t *testing.T, bet int64, player, dealer []Card, deck ...Card) *Session {
	t.Helper()
	i := 0
	s := &Session{
		ID:     "test",
		UserID: "player1",
		bet:    bet,
		player: player,
		dealer: dealer,
		state:  StateOpen,
	}
	s.draw = func() Card {
		if i >= len(deck) {
			t.Fatal("stacked deck ran out")
		}
		c := deck[i]
		i++
		return c
	}
	return s
}

func c(rank string) Card { return Card{Rank: rank, Suit: "♠"} }

func TestNaturalPaysThreeToTwo(t *testing.T) {
	s := &Session{bet: 100, player: []Card{c("10"), c("A")}, dealer: []Card{c("5"), c("9")}}
	s.resolveNatural()

	res := s.Snapshot()
	if !res.Finished || res.Outcome != OutcomeBlackjack {
		t.Fatalf("natural not settled: finished=%v outcome=%s", res.Finished, res.Outcome)
	}
	if res.Payout != 250 {
		t.Errorf("natural on 100 paid %d, want 250", res.Payout)
	}
}

func TestNaturalVersusNaturalIsPush(t *testing.T) {
	s := &Session{bet: 100, player: []Card{c("A"), c("K")}, dealer: []Card{c("A"), c("Q")}}
	s.resolveNatural()

	res := s.Snapshot()
	if res.Outcome != OutcomePush || res.Payout != 100 {
		t.Errorf("double natural settled as %s with payout %d, want push 100", res.Outcome, res.Payout)
	}
}

func TestOddWagerNaturalRoundsDown(t *testing.T) {
	s := &Session{bet: 101, player: []Card{c("10"), c("A")}, dealer: []Card{c("5"), c("9")}}
	s.resolveNatural()

	if got := s.Snapshot().Payout; got != 252 {
		t.Errorf("natural on 101 paid %d, want 252", got)
	}
}

func TestHitBustSettlesWithoutDealerPlay(t *testing.T) {
	// Player sits on 17 and draws a 5 into a 22 bust. The dealer's 6
	// would have to draw, so an untouched dealer hand proves dealer
	// auto-play never ran.
	s := stackedSession(t, 100,
		[]Card{c("8"), c("9")},
		[]Card{c("10"), c("6")},
		c("5"))

	res, err := s.Hit()
	if err != nil {
		t.Fatalf("Hit() error: %v", err)
	}
	if !res.Finished || res.Outcome != OutcomeLoss || res.Payout != 0 {
		t.Fatalf("bust settled as finished=%v outcome=%s payout=%d", res.Finished, res.Outcome, res.Payout)
	}
	if res.PlayerScore != 22 {
		t.Errorf("player score %d, want 22", res.PlayerScore)
	}
	if len(res.Dealer) != 2 {
		t.Errorf("dealer drew %d cards after the player busted", len(res.Dealer)-2)
	}
}

func TestHitKeepsGameOpenBelowBust(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("5"), c("6")},
		[]Card{c("10"), c("7")},
		c("2"))

	res, err := s.Hit()
	if err != nil {
		t.Fatalf("Hit() error: %v", err)
	}
	if res.Finished {
		t.Fatal("13 should not settle the game")
	}
	if res.PlayerScore != 13 {
		t.Errorf("player score %d, want 13", res.PlayerScore)
	}
}

func TestStandDealerDrawsToSeventeen(t *testing.T) {
	// Dealer starts at 12 and draws 2 then 4 to stop on 18.
	s := stackedSession(t, 100,
		[]Card{c("10"), c("9")},
		[]Card{c("10"), c("2")},
		c("2"), c("4"))

	res, err := s.Stand()
	if err != nil {
		t.Fatalf("Stand() error: %v", err)
	}
	if res.DealerScore != 18 {
		t.Errorf("dealer stopped on %d, want 18", res.DealerScore)
	}
	if res.Outcome != OutcomeWin || res.Payout != 200 {
		t.Errorf("19 vs 18 settled as %s payout %d, want win 200", res.Outcome, res.Payout)
	}
}

func TestStandDealerBustPaysDouble(t *testing.T) {
	s := stackedSession(t, 50,
		[]Card{c("10"), c("5")},
		[]Card{c("10"), c("6")},
		c("10"))

	res, err := s.Stand()
	if err != nil {
		t.Fatalf("Stand() error: %v", err)
	}
	if res.DealerScore <= 21 {
		t.Fatalf("dealer on %d did not bust", res.DealerScore)
	}
	if res.Outcome != OutcomeWin || res.Payout != 100 {
		t.Errorf("dealer bust settled as %s payout %d, want win 100", res.Outcome, res.Payout)
	}
}

func TestStandPushReturnsWager(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("10"), c("8")},
		[]Card{c("10"), c("8")})

	res, err := s.Stand()
	if err != nil {
		t.Fatalf("Stand() error: %v", err)
	}
	if res.Outcome != OutcomePush || res.Payout != 100 {
		t.Errorf("18 vs 18 settled as %s payout %d, want push 100", res.Outcome, res.Payout)
	}
}

func TestDoubleDownDoublesWagerAndSettles(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("5"), c("6")},
		[]Card{c("10"), c("7")},
		c("10"))

	res, err := s.DoubleDown(func(extra int64) bool { return extra == 100 })
	if err != nil {
		t.Fatalf("DoubleDown() error: %v", err)
	}
	if res.Wager != 200 {
		t.Errorf("wager after double = %d, want 200", res.Wager)
	}
	if !res.Finished {
		t.Fatal("double-down must settle the game")
	}
	// 21 vs 17: win pays twice the doubled wager.
	if res.Outcome != OutcomeWin || res.Payout != 400 {
		t.Errorf("settled as %s payout %d, want win 400", res.Outcome, res.Payout)
	}
}

func TestDoubleDownRejectedWithoutFunds(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("5"), c("6")},
		[]Card{c("10"), c("7")})

	res, err := s.DoubleDown(func(int64) bool { return false })
	if err != ErrInsufficientFunds {
		t.Fatalf("DoubleDown() = %v, want ErrInsufficientFunds", err)
	}
	if res.Finished || res.Wager != 100 || len(res.Player) != 2 {
		t.Error("rejected double-down changed the session")
	}

	// The game is still playable afterwards.
	if _, err := s.Stand(); err != nil {
		t.Errorf("Stand() after rejected double: %v", err)
	}
}

func TestSecondDoubleDownRejected(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("5"), c("6")},
		[]Card{c("10"), c("7")},
		c("10"))

	if _, err := s.DoubleDown(func(int64) bool { return true }); err != nil {
		t.Fatalf("first DoubleDown() error: %v", err)
	}

	before := s.Snapshot()
	_, err := s.DoubleDown(func(int64) bool { return true })
	if err == nil {
		t.Fatal("second double-down accepted")
	}
	after := s.Snapshot()
	if before.Wager != after.Wager || len(before.Player) != len(after.Player) {
		t.Error("second double-down mutated the session")
	}
}

func TestTransitionsAfterFinishFail(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("10"), c("9")},
		[]Card{c("10"), c("8")})

	if _, err := s.Stand(); err != nil {
		t.Fatalf("Stand() error: %v", err)
	}

	if _, err := s.Hit(); err != ErrGameOver {
		t.Errorf("Hit() after finish = %v, want ErrGameOver", err)
	}
	if _, err := s.Stand(); err != ErrGameOver {
		t.Errorf("Stand() after finish = %v, want ErrGameOver", err)
	}
}

func TestTimeoutActsAsStandOnce(t *testing.T) {
	s := stackedSession(t, 100,
		[]Card{c("10"), c("9")},
		[]Card{c("10"), c("8")})

	res, fired := s.Timeout()
	if !fired {
		t.Fatal("timeout on an open session must settle it")
	}
	if res.Outcome != OutcomeWin || res.Payout != 200 {
		t.Errorf("19 vs 18 timeout settled as %s payout %d, want win 200", res.Outcome, res.Payout)
	}

	// Duplicate timer fire is a no-op and reports not-fired.
	res2, fired2 := s.Timeout()
	if fired2 {
		t.Fatal("duplicate timeout fired again")
	}
	if res2.Outcome != res.Outcome || res2.Payout != res.Payout {
		t.Error("duplicate timeout changed the settlement")
	}
}
