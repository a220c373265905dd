// Package economy — repository.go runs all queries against the balances,
// transactions and daily_claims tables. Every money mutation happens
// inside a DB transaction so the balance update and the audit row are
// atomic.
package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joelcarspotz/carfigures/internal/common"
)

// Repository provides balance and transaction operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates an economy repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureBalance creates the account row if it does not exist yet.
func (r *Repository) EnsureBalance(ctx context.Context, userID string, starting int64) error {
	query := `
		INSERT INTO balances (user_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, starting); err != nil {
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

// GetBalance returns the user's current balance. A missing account row
// reads as zero — the account is created lazily on the first credit.
func (r *Repository) GetBalance(ctx context.Context, userID string) (int64, error) {
	query := `SELECT balance FROM balances WHERE user_id = $1`
	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// AddCoins credits the account and writes the audit row.
func (r *Repository) AddCoins(ctx context.Context, userID string, amount int64, txType, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = balances.balance + $2,
			lifetime_earned = balances.lifetime_earned + $2,
			updated_at = NOW()
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit coins: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx.Commit(ctx)
}

// SpendCoins debits the account after checking the balance under a row
// lock, so two concurrent bets cannot both pass the check.
func (r *Repository) SpendCoins(ctx context.Context, userID string, amount int64, txType, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&current)
	if err == pgx.ErrNoRows {
		return common.ErrInsufficientBalance
	}
	if err != nil {
		return fmt.Errorf("failed to read balance: %w", err)
	}

	if current < amount {
		return common.ErrInsufficientBalance
	}

	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance - $2, lifetime_spent = lifetime_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit coins: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (from_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, userID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx.Commit(ctx)
}

// Transfer moves coins between two users atomically.
func (r *Repository) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var senderBalance int64
	err = tx.QueryRow(ctx, `
		SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE
	`, fromUserID).Scan(&senderBalance)
	if err == pgx.ErrNoRows {
		return common.ErrInsufficientBalance
	}
	if err != nil {
		return fmt.Errorf("sender not found: %w", err)
	}

	if senderBalance < amount {
		return common.ErrInsufficientBalance
	}

	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance - $2, lifetime_spent = lifetime_spent + $2, updated_at = NOW()
		WHERE user_id = $1
	`, fromUserID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET
			balance = balances.balance + $2,
			lifetime_earned = balances.lifetime_earned + $2,
			updated_at = NOW()
	`, toUserID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit recipient: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (from_user_id, to_user_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, 'transfer', $4)
	`, fromUserID, toUserID, amount, fmt.Sprintf("Transfer of %d coins", amount))
	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx.Commit(ctx)
}

// GetTransactions returns the user's latest transactions, newest first.
func (r *Repository) GetTransactions(ctx context.Context, userID string, limit int) ([]*Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, amount, transaction_type, description, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(
			&t.ID, &t.FromUserID, &t.ToUserID,
			&t.Amount, &t.TransactionType, &t.Description, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// GetLastClaim returns the user's most recent daily claim, or nil.
func (r *Repository) GetLastClaim(ctx context.Context, userID string) (*DailyClaim, error) {
	query := `
		SELECT id, user_id, claim_date, amount_claimed, streak_count, created_at
		FROM daily_claims
		WHERE user_id = $1
		ORDER BY claim_date DESC
		LIMIT 1
	`
	var c DailyClaim
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.ClaimDate, &c.AmountClaimed, &c.StreakCount, &c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last claim: %w", err)
	}
	return &c, nil
}

// InsertClaim records a daily claim. The unique (user_id, claim_date)
// constraint turns a duplicate claim into an error.
func (r *Repository) InsertClaim(ctx context.Context, userID string, day time.Time, amount int64, streak int) error {
	query := `
		INSERT INTO daily_claims (user_id, claim_date, amount_claimed, streak_count)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, userID, day, amount, streak); err != nil {
		return fmt.Errorf("failed to record daily claim: %w", err)
	}
	return nil
}

// GetLeaderboard returns the top balances joined with usernames.
func (r *Repository) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	query := `
		SELECT b.user_id, COALESCE(p.username, ''), b.balance
		FROM balances b
		LEFT JOIN players p ON p.user_id = b.user_id
		WHERE b.balance > 0
		ORDER BY b.balance DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
