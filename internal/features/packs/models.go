// Package packs sells and opens car packs. models.go describes the
// pack catalog and purchase records.
package packs

import "time"

// Pack is one purchasable pack definition.
type Pack struct {
	ID             int64      `db:"id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	Price          int64      `db:"price"`
	GuaranteedCars int        `db:"guaranteed_cars"`
	// Tier chances are percentages of one draw. Whatever is left after
	// legendary+epic+rare goes to common.
	ChanceLegendary float64 `db:"chance_legendary"`
	ChanceEpic      float64 `db:"chance_epic"`
	ChanceRare      float64 `db:"chance_rare"`

	IsActive bool `db:"is_active"`
	// Limited-time packs carry an availability window; nil means always
	// available while active.
	AvailableFrom  *time.Time `db:"available_from"`
	AvailableUntil *time.Time `db:"available_until"`
	CreatedAt      time.Time  `db:"created_at"`
}

// AvailableAt reports whether the pack can be bought at the given time.
func (p *Pack) AvailableAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.AvailableFrom != nil && t.Before(*p.AvailableFrom) {
		return false
	}
	if p.AvailableUntil != nil && t.After(*p.AvailableUntil) {
		return false
	}
	return true
}

// PackEntry is one car in a pack's loot table.
type PackEntry struct {
	ID         int64   `db:"id"`
	PackID     int64   `db:"pack_id"`
	CarID      int64   `db:"car_id"`
	DropWeight float64 `db:"drop_weight"`

	CarName   string  `db:"-"`
	CarRarity float64 `db:"-"`
	CarYear   int     `db:"-"`
}

// UserPack is one purchased pack, opened or not.
type UserPack struct {
	ID          int64      `db:"id"`
	UserID      string     `db:"user_id"`
	PackID      int64      `db:"pack_id"`
	PurchasedAt time.Time  `db:"purchased_at"`
	OpenedAt    *time.Time `db:"opened_at"`

	Pack *Pack `db:"-"`
}
