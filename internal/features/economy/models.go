// Package economy implements the coin ledger: balances, the transaction
// audit trail and daily claims with streak bonuses.
// models.go describes the data structures.
package economy

import "time"

// Balance is one user's coin account.
type Balance struct {
	ID             int64     `db:"id"`
	UserID         string    `db:"user_id"`
	Balance        int64     `db:"balance"`
	LifetimeEarned int64     `db:"lifetime_earned"`
	LifetimeSpent  int64     `db:"lifetime_spent"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Transaction is one audit row. Credits have only ToUserID set, debits
// only FromUserID, transfers both.
type Transaction struct {
	ID              int64     `db:"id"`
	FromUserID      *string   `db:"from_user_id"`
	ToUserID        *string   `db:"to_user_id"`
	Amount          int64     `db:"amount"`
	TransactionType string    `db:"transaction_type"`
	Description     string    `db:"description"`
	CreatedAt       time.Time `db:"created_at"`
}

// DailyClaim records one daily reward. (user_id, claim_date) is unique.
type DailyClaim struct {
	ID            int64     `db:"id"`
	UserID        string    `db:"user_id"`
	ClaimDate     time.Time `db:"claim_date"`
	AmountClaimed int64     `db:"amount_claimed"`
	StreakCount   int       `db:"streak_count"`
	CreatedAt     time.Time `db:"created_at"`
}

// LeaderboardEntry is one row of the coin leaderboard.
type LeaderboardEntry struct {
	UserID   string
	Username string
	Balance  int64
}
