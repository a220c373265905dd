// Package players — repository.go runs all queries against the players table.
package players

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository works with the players table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a players repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert creates the player row or refreshes the username.
func (r *Repository) Upsert(ctx context.Context, userID, username string) error {
	query := `
		INSERT INTO players (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, username); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// GetByUserID returns one player by Discord id.
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Player, error) {
	query := `
		SELECT id, user_id, username, cars_caught, packs_opened,
		       total_coins_earned, created_at, updated_at
		FROM players
		WHERE user_id = $1
	`
	var p Player
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Username, &p.CarsCaught, &p.PacksOpened,
		&p.TotalCoinsEarned, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("player not found: %w", err)
	}
	return &p, nil
}

// RecordCatch bumps the catch counters after a successful catch.
func (r *Repository) RecordCatch(ctx context.Context, userID string, coinsEarned int64) error {
	query := `
		UPDATE players
		SET cars_caught = cars_caught + 1,
		    total_coins_earned = total_coins_earned + $2,
		    updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID, coinsEarned); err != nil {
		return fmt.Errorf("failed to record catch: %w", err)
	}
	return nil
}

// RecordPackOpened bumps the packs_opened counter.
func (r *Repository) RecordPackOpened(ctx context.Context, userID string) error {
	query := `
		UPDATE players
		SET packs_opened = packs_opened + 1, updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to record pack opening: %w", err)
	}
	return nil
}
