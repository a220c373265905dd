package blackjack

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

func TestCardValues(t *testing.T) {
	tests := []struct {
		rank string
		want int
	}{
		{"A", 11},
		{"2", 2},
		{"9", 9},
		{"10", 10},
		{"J", 10},
		{"Q", 10},
		{"K", 10},
	}
	for _, tt := range tests {
		if got := (Card{Rank: tt.rank, Suit: "♠"}).value(); got != tt.want {
			t.Errorf("value(%s) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestScoreAceDowngrade(t *testing.T) {
	c := func(rank string) Card { return Card{Rank: rank, Suit: "♣"} }

	tests := []struct {
		name string
		hand []Card
		want int
	}{
		{"soft 21", []Card{c("A"), c("10")}, 21},
		{"two aces", []Card{c("A"), c("A")}, 12},
		{"ace drops under pressure", []Card{c("A"), c("9"), c("5")}, 15},
		{"both aces drop", []Card{c("A"), c("A"), c("10")}, 12},
		{"hard bust", []Card{c("8"), c("9"), c("5")}, 22},
		{"four aces", []Card{c("A"), c("A"), c("A"), c("A")}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.hand); got != tt.want {
				t.Errorf("Score(%v) = %d, want %d", tt.hand, got, tt.want)
			}
		})
	}
}

// Score must equal the best total over all ways of valuing the aces:
// the highest total ≤21 when one exists, otherwise the lowest total.
func TestScoreMatchesBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		hand := make([]Card, n)
		aces := 0
		base := 0
		for i := range hand {
			r := rapid.SampledFrom(ranks).Draw(t, "rank")
			hand[i] = Card{Rank: r, Suit: suits[i%len(suits)]}
			if r == "A" {
				aces++
			} else {
				base += hand[i].value()
			}
		}

		best := -1
		lowest := -1
		for high := 0; high <= aces; high++ {
			total := base + high*11 + (aces-high)*1
			if lowest == -1 || total < lowest {
				lowest = total
			}
			if total <= 21 && total > best {
				best = total
			}
		}
		want := best
		if want == -1 {
			want = lowest
		}

		if got := Score(hand); got != want {
			t.Fatalf("Score(%v) = %d, want %d", hand, got, want)
		}
	})
}

func TestDrawIsAlwaysAValidCard(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	validRank := make(map[string]bool)
	for _, r := range ranks {
		validRank[r] = true
	}
	validSuit := make(map[string]bool)
	for _, s := range suits {
		validSuit[s] = true
	}

	for i := 0; i < 10_000; i++ {
		c := Draw(rng)
		if !validRank[c.Rank] || !validSuit[c.Suit] {
			t.Fatalf("Draw produced %v", c)
		}
	}
}

func TestIsBlackjack(t *testing.T) {
	c := func(rank string) Card { return Card{Rank: rank, Suit: "♦"} }

	if !IsBlackjack([]Card{c("A"), c("K")}) {
		t.Error("A K is a natural")
	}
	if IsBlackjack([]Card{c("7"), c("7"), c("7")}) {
		t.Error("21 in three cards is not a natural")
	}
	if IsBlackjack([]Card{c("10"), c("9")}) {
		t.Error("19 is not a natural")
	}
}
