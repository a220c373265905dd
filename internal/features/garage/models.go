// Package garage manages the car catalog and each player's collection.
// models.go describes the data structures.
package garage

import "time"

// Rarity display buckets. The catalog stores a numeric rarity score
// where lower means rarer; the buckets are cumulative cutoffs on that
// score (legendary ⊆ epic ⊆ rare ⊆ common).
const (
	LegendaryCutoff = 1.0
	EpicCutoff      = 2.0
	RareCutoff      = 5.0
	CommonCutoff    = 10.0
)

// Car is one catalog entry.
type Car struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Model       string    `db:"model"`
	Year        int       `db:"year"`
	Horsepower  int       `db:"horsepower"`
	Weight      int       `db:"weight"`
	Rarity      float64   `db:"rarity"` // lower = rarer
	CarType     string    `db:"car_type"`
	IsExclusive bool      `db:"is_exclusive"`
	ImageURL    string    `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
}

// RarityLabelFor returns the display bucket for a rarity score.
func RarityLabelFor(rarity float64) string {
	switch {
	case rarity <= LegendaryCutoff:
		return "🟨 Legendary"
	case rarity <= EpicCutoff:
		return "🟪 Epic"
	case rarity <= RareCutoff:
		return "🟦 Rare"
	default:
		return "🟫 Common"
	}
}

// RarityEmojiFor returns just the bucket marker, for list lines.
func RarityEmojiFor(rarity float64) string {
	switch {
	case rarity <= LegendaryCutoff:
		return "🟨"
	case rarity <= EpicCutoff:
		return "🟪"
	case rarity <= RareCutoff:
		return "🟦"
	default:
		return "🟫"
	}
}

// RarityLabel returns the display bucket for the car's rarity score.
func (c *Car) RarityLabel() string { return RarityLabelFor(c.Rarity) }

// RarityEmoji returns just the bucket marker.
func (c *Car) RarityEmoji() string { return RarityEmojiFor(c.Rarity) }

// OwnedCar is one row of a player's collection.
type OwnedCar struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	CarID      int64     `db:"car_id"`
	CaughtAt   time.Time `db:"caught_at"`
	CatchBonus int64     `db:"catch_bonus"`
	IsShiny    bool      `db:"is_shiny"`
	IsFavorite bool      `db:"is_favorite"`

	Car *Car `db:"-"`
}
