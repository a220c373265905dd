package casino

import (
	"math/rand"
	"testing"
	"time"
)

func TestPlaySlotsPayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	var (
		spins    = 200_000
		wagered  int64
		returned int64
	)
	for i := 0; i < spins; i++ {
		res := PlaySlots(rng, 100)
		wagered += 100
		returned += res.Payout

		if res.Payout < 0 {
			t.Fatalf("negative payout %d", res.Payout)
		}
		if res.Payout > 0 && res.Matched == "" {
			t.Fatal("payout without a matched symbol")
		}
	}

	// The table is tuned for a house edge: long-run return sits below
	// 100% of wagered but well above zero.
	rtp := float64(returned) / float64(wagered)
	if rtp <= 0.10 || rtp >= 1.0 {
		t.Errorf("slots long-run return = %.2f, expected a house edge below 1.0", rtp)
	}
}

func TestPlayCoinflip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	if _, err := PlayCoinflip(rng, 100, "edge"); err == nil {
		t.Error("invalid guess accepted")
	}

	wins := 0
	const flips = 10_000
	for i := 0; i < flips; i++ {
		res, err := PlayCoinflip(rng, 100, "heads")
		if err != nil {
			t.Fatalf("PlayCoinflip error: %v", err)
		}
		if res.Won {
			wins++
			if res.Payout != 200 {
				t.Fatalf("winning flip paid %d, want 200", res.Payout)
			}
		} else if res.Payout != 0 {
			t.Fatalf("losing flip paid %d", res.Payout)
		}
	}

	share := float64(wins) / flips
	if share < 0.45 || share > 0.55 {
		t.Errorf("heads came up %.1f%% of the time, want ~50%%", share*100)
	}
}

func TestPlayDice(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for _, bad := range []int{0, 7, -1} {
		if _, err := PlayDice(rng, 100, bad); err == nil {
			t.Errorf("guess %d accepted", bad)
		}
	}

	res, err := PlayDice(rng, 100, 3)
	if err != nil {
		t.Fatalf("PlayDice error: %v", err)
	}
	if res.Rolled < 1 || res.Rolled > 6 {
		t.Fatalf("rolled %d, outside 1-6", res.Rolled)
	}
	if res.Won && res.Payout != 600 {
		t.Errorf("winning roll paid %d, want 600", res.Payout)
	}
}

func TestPlayRoulette(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	if _, err := PlayRoulette(rng, 100, "37"); err == nil {
		t.Error("out-of-range number accepted")
	}
	if _, err := PlayRoulette(rng, 100, "purple"); err == nil {
		t.Error("unknown call accepted")
	}

	for i := 0; i < 10_000; i++ {
		res, err := PlayRoulette(rng, 100, "red")
		if err != nil {
			t.Fatalf("PlayRoulette error: %v", err)
		}
		if res.Number == 0 {
			if res.Color != "green" {
				t.Fatalf("zero colored %s", res.Color)
			}
			if res.Won {
				t.Fatal("zero paid a color bet")
			}
		}
		if res.Won && res.Payout != 200 {
			t.Fatalf("winning color bet paid %d, want 200", res.Payout)
		}
	}

	// Parity and range bets also lose on zero.
	for i := 0; i < 10_000; i++ {
		res, err := PlayRoulette(rng, 100, "even")
		if err != nil {
			t.Fatalf("PlayRoulette error: %v", err)
		}
		if res.Number == 0 && res.Won {
			t.Fatal("zero paid an even bet")
		}
	}
}

func TestRouletteStraightNumberPayout(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	hits := 0
	for i := 0; i < 37_000; i++ {
		res, err := PlayRoulette(rng, 10, "17")
		if err != nil {
			t.Fatalf("PlayRoulette error: %v", err)
		}
		if res.Won {
			hits++
			if res.Payout != 350 {
				t.Fatalf("straight hit paid %d, want 350", res.Payout)
			}
		}
	}
	// 1/37 odds over 37k spins: roughly 1000 hits.
	if hits < 800 || hits > 1200 {
		t.Errorf("straight number hit %d times in 37k spins, want ~1000", hits)
	}
}

func TestDailyLuckyGame(t *testing.T) {
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	first := DailyLuckyGame(day)
	for i := 0; i < 10; i++ {
		if got := DailyLuckyGame(day); got != first {
			t.Fatalf("lucky game changed within the same day: %s then %s", first, got)
		}
	}

	// The hour must not matter, only the date.
	evening := day.Add(23 * time.Hour)
	if got := DailyLuckyGame(evening); got != first {
		t.Errorf("lucky game differs within one day: %s vs %s", first, got)
	}
}

func TestApplyLuckyBonus(t *testing.T) {
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	lucky := DailyLuckyGame(day)

	boosted, applied := ApplyLuckyBonus(lucky, 1000, day)
	if !applied || boosted != 1100 {
		t.Errorf("ApplyLuckyBonus(lucky, 1000) = (%d, %v), want (1100, true)", boosted, applied)
	}

	// Losses never get boosted.
	if got, applied := ApplyLuckyBonus(lucky, 0, day); applied || got != 0 {
		t.Errorf("ApplyLuckyBonus(lucky, 0) = (%d, %v), want (0, false)", got, applied)
	}
}
