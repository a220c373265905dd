// Package random provides the weighted-choice primitive shared by the
// spawn messages, slot reels and the pack resolver, plus a date-seeded
// generator for repeatable daily values.
//
// Every function takes an explicit *rand.Rand so callers can inject a
// fixed-seed source in tests. Nothing here touches the global generator.
package random

import (
	"errors"
	"math/rand"
	"time"
)

// ErrNoWeights is returned when the item set is empty or every weight
// is non-positive.
var ErrNoWeights = errors.New("weighted choice: no positive weights")

// WeightedIndex picks an index with probability weight[i] / sum(weights).
// Non-positive weights are treated as ineligible. Weights do not need to
// sum to any particular total.
func WeightedIndex(rng *rand.Rand, weights []float64) (int, error) {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0, ErrNoWeights
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r < 0 {
			return i, nil
		}
	}

	// Float rounding can leave r at exactly 0 after the loop.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return 0, ErrNoWeights
}

// Weighted picks one item with probability proportional to its weight.
func Weighted[T any](rng *rand.Rand, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 || len(items) != len(weights) {
		return zero, ErrNoWeights
	}
	i, err := WeightedIndex(rng, weights)
	if err != nil {
		return zero, err
	}
	return items[i], nil
}

// New returns a generator seeded from the current time.
func New() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewDaily returns a generator seeded from the given date, so that every
// call on the same calendar day yields the same sequence. The generator
// is local to the caller; the shared default source is never reseeded.
func NewDaily(day time.Time) *rand.Rand {
	seed := int64(day.Year())*10000 + int64(day.Month())*100 + int64(day.Day())
	return rand.New(rand.NewSource(seed))
}
