// Package casino implements the single-roll gambling games. games.go
// holds the pure game logic and payout tables; money never moves here.
package casino

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/joelcarspotz/carfigures/internal/common"
	"github.com/joelcarspotz/carfigures/internal/random"
)

// Game names as stored in casino_games.game.
const (
	GameSlots     = "slots"
	GameCoinflip  = "coinflip"
	GameDice      = "dice"
	GameRoulette  = "roulette"
	GameBlackjack = "blackjack"
)

// slotSymbol is one reel face with its draw weight and payout
// multiplier.
type slotSymbol struct {
	emoji  string
	weight float64
	mult   float64
}

// Rarer symbols pay more. Weights and multipliers are tuned so the
// house keeps a small edge.
var slotSymbols = []slotSymbol{
	{"🍒", 30, 0.5},
	{"🍋", 25, 0.8},
	{"🍊", 20, 1.0},
	{"🍇", 15, 1.5},
	{"🔔", 8, 2.0},
	{"💎", 2, 2.5},
}

var slotWeights = func() []float64 {
	w := make([]float64, len(slotSymbols))
	for i, s := range slotSymbols {
		w[i] = s.weight
	}
	return w
}()

// SlotsResult is one spin.
type SlotsResult struct {
	Reels   [3]string
	Payout  int64
	Matched string
}

// PlaySlots spins three weighted reels. Three of a kind pays
// bet*multiplier, a pair pays 30% of that, anything else loses.
func PlaySlots(rng *rand.Rand, bet int64) SlotsResult {
	var idx [3]int
	var res SlotsResult
	for i := 0; i < 3; i++ {
		j, err := random.WeightedIndex(rng, slotWeights)
		if err != nil {
			// Static weight table, cannot be empty.
			j = 0
		}
		idx[i] = j
		res.Reels[i] = slotSymbols[j].emoji
	}

	switch {
	case idx[0] == idx[1] && idx[1] == idx[2]:
		s := slotSymbols[idx[0]]
		res.Payout = int64(float64(bet) * s.mult)
		res.Matched = s.emoji
	case idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2]:
		m := idx[0]
		if idx[1] == idx[2] {
			m = idx[1]
		}
		s := slotSymbols[m]
		res.Payout = int64(float64(bet) * s.mult * 0.3)
		res.Matched = s.emoji
	}
	return res
}

// CoinflipResult is one flip.
type CoinflipResult struct {
	Side   string // "heads" or "tails"
	Won    bool
	Payout int64
}

// PlayCoinflip flips a fair coin; a correct call pays 2x.
func PlayCoinflip(rng *rand.Rand, bet int64, guess string) (CoinflipResult, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))
	if guess != "heads" && guess != "tails" {
		return CoinflipResult{}, fmt.Errorf("%w: call heads or tails", common.ErrInvalidGuess)
	}

	side := "heads"
	if rng.Intn(2) == 1 {
		side = "tails"
	}

	res := CoinflipResult{Side: side, Won: side == guess}
	if res.Won {
		res.Payout = bet * 2
	}
	return res, nil
}

// DiceResult is one roll.
type DiceResult struct {
	Rolled int
	Won    bool
	Payout int64
}

// PlayDice rolls a d6; a correct call pays 6x.
func PlayDice(rng *rand.Rand, bet int64, guess int) (DiceResult, error) {
	if guess < 1 || guess > 6 {
		return DiceResult{}, fmt.Errorf("%w: call a face between 1 and 6", common.ErrInvalidGuess)
	}

	rolled := rng.Intn(6) + 1
	res := DiceResult{Rolled: rolled, Won: rolled == guess}
	if res.Won {
		res.Payout = bet * 6
	}
	return res, nil
}

// European wheel red numbers. Everything 1-36 not in here is black; 0
// is green.
var rouletteRed = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// RouletteResult is one spin.
type RouletteResult struct {
	Number int
	Color  string // "red", "black" or "green"
	Won    bool
	Payout int64
}

// PlayRoulette spins a European wheel. A straight number pays 35x;
// red/black, odd/even and low/high pay 2x. Zero wins only straight
// zero bets.
func PlayRoulette(rng *rand.Rand, bet int64, call string) (RouletteResult, error) {
	call = strings.ToLower(strings.TrimSpace(call))

	number := rng.Intn(37)
	res := RouletteResult{Number: number, Color: rouletteColor(number)}

	switch call {
	case "red", "black":
		res.Won = number != 0 && res.Color == call
		if res.Won {
			res.Payout = bet * 2
		}
	case "odd":
		res.Won = number != 0 && number%2 == 1
		if res.Won {
			res.Payout = bet * 2
		}
	case "even":
		res.Won = number != 0 && number%2 == 0
		if res.Won {
			res.Payout = bet * 2
		}
	case "low":
		res.Won = number >= 1 && number <= 18
		if res.Won {
			res.Payout = bet * 2
		}
	case "high":
		res.Won = number >= 19 && number <= 36
		if res.Won {
			res.Payout = bet * 2
		}
	default:
		guess, err := strconv.Atoi(call)
		if err != nil || guess < 0 || guess > 36 {
			return RouletteResult{}, fmt.Errorf("%w: call a number 0-36, red/black, odd/even or low/high", common.ErrInvalidGuess)
		}
		res.Won = number == guess
		if res.Won {
			res.Payout = bet * 35
		}
	}
	return res, nil
}

func rouletteColor(n int) string {
	switch {
	case n == 0:
		return "green"
	case rouletteRed[n]:
		return "red"
	default:
		return "black"
	}
}

// DailyLuckyGame picks the game of the day. The pick is stable for the
// whole UTC day and rolls over at midnight; the lucky game pays a 10%
// bonus on winnings.
func DailyLuckyGame(day time.Time) string {
	games := []string{GameSlots, GameCoinflip, GameDice, GameRoulette}
	rng := random.NewDaily(day)
	return games[rng.Intn(len(games))]
}

// LuckyBonusMultiplier is applied to winnings on the daily lucky game.
const LuckyBonusMultiplier = 1.10

// ApplyLuckyBonus bumps a payout when the game is today's lucky game.
func ApplyLuckyBonus(game string, payout int64, day time.Time) (int64, bool) {
	if payout <= 0 || DailyLuckyGame(day) != game {
		return payout, false
	}
	return int64(float64(payout) * LuckyBonusMultiplier), true
}
