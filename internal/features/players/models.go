// Package players manages the Discord users known to the bot.
package players

import "time"

// Player is one Discord user tracked by the bot.
type Player struct {
	ID               int64     `db:"id"`
	UserID           string    `db:"user_id"` // Discord snowflake
	Username         string    `db:"username"`
	CarsCaught       int       `db:"cars_caught"`
	PacksOpened      int       `db:"packs_opened"`
	TotalCoinsEarned int64     `db:"total_coins_earned"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
