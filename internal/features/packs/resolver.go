// Package packs — resolver.go rolls the contents of an opened pack.
package packs

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/joelcarspotz/carfigures/internal/features/garage"
	"github.com/joelcarspotz/carfigures/internal/random"
)

const shinyChance = 0.05

// ErrBadPackConfig marks a pack definition the resolver refuses to
// roll. Wrapped errors carry the specific problem.
var ErrBadPackConfig = errors.New("invalid pack configuration")

// DrawnCar is one car rolled out of a pack.
type DrawnCar struct {
	Entry *PackEntry
	Shiny bool
}

// Resolver rolls pack openings. Each draw picks a rarity tier by the
// pack's chances, narrows the loot table to cars of that tier or rarer,
// then picks one weighted by drop weight. A draw whose tier has no
// eligible cars yields nothing, so an opening can produce fewer cars
// than guaranteed when the loot table is thin. Openings arrive from
// concurrent handler goroutines, so draws are serialized on a mutex.
type Resolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a resolver drawing from rng.
func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng}
}

// Validate checks a pack definition before rolling.
func Validate(pack *Pack, entries []*PackEntry) error {
	if pack.GuaranteedCars < 1 {
		return fmt.Errorf("%w: guaranteed cars must be at least 1", ErrBadPackConfig)
	}
	if pack.ChanceLegendary < 0 || pack.ChanceEpic < 0 || pack.ChanceRare < 0 {
		return fmt.Errorf("%w: tier chances must not be negative", ErrBadPackConfig)
	}
	if sum := pack.ChanceLegendary + pack.ChanceEpic + pack.ChanceRare; sum > 100 {
		return fmt.Errorf("%w: tier chances sum to %.1f%%, more than 100%%", ErrBadPackConfig, sum)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: loot table is empty", ErrBadPackConfig)
	}
	for _, e := range entries {
		if e.DropWeight <= 0 {
			return fmt.Errorf("%w: car %d has non-positive drop weight", ErrBadPackConfig, e.CarID)
		}
	}
	return nil
}

// Resolve rolls the full opening: GuaranteedCars independent draws.
func (r *Resolver) Resolve(pack *Pack, entries []*PackEntry) ([]*DrawnCar, error) {
	if err := Validate(pack, entries); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var drawn []*DrawnCar
	for i := 0; i < pack.GuaranteedCars; i++ {
		entry := r.drawOne(pack, entries)
		if entry == nil {
			continue
		}
		drawn = append(drawn, &DrawnCar{
			Entry: entry,
			Shiny: r.rng.Float64() < shinyChance,
		})
	}
	return drawn, nil
}

// drawOne rolls a single draw, or nil when the rolled tier has no
// eligible cars.
func (r *Resolver) drawOne(pack *Pack, entries []*PackEntry) *PackEntry {
	cutoff := r.rollTier(pack)

	var pool []*PackEntry
	var weights []float64
	for _, e := range entries {
		if e.CarRarity <= cutoff {
			pool = append(pool, e)
			weights = append(weights, e.DropWeight)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	entry, err := random.Weighted(r.rng, pool, weights)
	if err != nil {
		// Validate rejected non-positive weights already.
		return nil
	}
	return entry
}

// rollTier picks the rarity cutoff for one draw. The roll walks the
// cumulative tier chances from rarest to most common.
func (r *Resolver) rollTier(pack *Pack) float64 {
	roll := r.rng.Float64() * 100

	cum := pack.ChanceLegendary
	if roll < cum {
		return garage.LegendaryCutoff
	}
	cum += pack.ChanceEpic
	if roll < cum {
		return garage.EpicCutoff
	}
	cum += pack.ChanceRare
	if roll < cum {
		return garage.RareCutoff
	}
	return garage.CommonCutoff
}
