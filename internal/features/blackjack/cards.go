// Package blackjack implements the card game played against the house
// dealer. cards.go holds the deck model and hand scoring.
package blackjack

import (
	"math/rand"
	"strings"
)

// Card is one playing card.
type Card struct {
	Rank string
	Suit string
}

var (
	ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	suits = []string{"♠", "♥", "♦", "♣"}
)

func (c Card) String() string { return c.Rank + c.Suit }

// value returns the card's base score with aces counted high.
func (c Card) value() int {
	switch c.Rank {
	case "A":
		return 11
	case "J", "Q", "K":
		return 10
	default:
		v := 0
		for _, r := range c.Rank {
			v = v*10 + int(r-'0')
		}
		return v
	}
}

// Draw deals one card. The shoe is treated as infinite: every draw is
// an independent uniform pick, so card counting buys nothing.
func Draw(rng *rand.Rand) Card {
	return Card{
		Rank: ranks[rng.Intn(len(ranks))],
		Suit: suits[rng.Intn(len(suits))],
	}
}

// Score totals a hand. Aces start at 11 and are downgraded to 1 one at
// a time while the hand busts, which yields the best total ≤21 when one
// exists.
func Score(hand []Card) int {
	total, aces := 0, 0
	for _, c := range hand {
		total += c.value()
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports a natural: exactly two cards totalling 21.
func IsBlackjack(hand []Card) bool {
	return len(hand) == 2 && Score(hand) == 21
}

// HandString renders a hand for display.
func HandString(hand []Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
