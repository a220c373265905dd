// Package casino — repository.go writes game rows and keeps the
// aggregated stats current.
package casino

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository works with the casino tables.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a casino repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// RecordGame logs one finished round and folds it into the stats row in
// a single transaction.
func (r *Repository) RecordGame(ctx context.Context, rec *GameRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO casino_games (user_id, game, bet, payout, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.UserID, rec.Game, rec.Bet, rec.Payout, rec.Detail)
	if err != nil {
		return fmt.Errorf("failed to log game: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO casino_stats (user_id, games_played, total_wagered, total_won, biggest_win,
			slots_played, flips_played, dice_played, spins_played, blackjack_played)
		VALUES ($1, 1, $2, $3, $3,
			($4 = 'slots')::int, ($4 = 'coinflip')::int, ($4 = 'dice')::int, ($4 = 'roulette')::int,
			($4 = 'blackjack')::int)
		ON CONFLICT (user_id) DO UPDATE SET
			games_played  = casino_stats.games_played + 1,
			total_wagered = casino_stats.total_wagered + EXCLUDED.total_wagered,
			total_won     = casino_stats.total_won + EXCLUDED.total_won,
			biggest_win   = GREATEST(casino_stats.biggest_win, EXCLUDED.biggest_win),
			slots_played  = casino_stats.slots_played + EXCLUDED.slots_played,
			flips_played  = casino_stats.flips_played + EXCLUDED.flips_played,
			dice_played   = casino_stats.dice_played + EXCLUDED.dice_played,
			spins_played  = casino_stats.spins_played + EXCLUDED.spins_played,
			blackjack_played = casino_stats.blackjack_played + EXCLUDED.blackjack_played
	`, rec.UserID, rec.Bet, rec.Payout, rec.Game)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	return tx.Commit(ctx)
}

// GetStats returns one user's casino stats, or nil when they never
// played.
func (r *Repository) GetStats(ctx context.Context, userID string) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT user_id, games_played, total_wagered, total_won, biggest_win,
		       slots_played, flips_played, dice_played, spins_played, blackjack_played
		FROM casino_stats WHERE user_id = $1
	`, userID).Scan(
		&s.UserID, &s.GamesPlayed, &s.TotalWagered, &s.TotalWon, &s.BiggestWin,
		&s.SlotsPlayed, &s.FlipsPlayed, &s.DicePlayed, &s.SpinsPlayed, &s.BlackjackPlayed,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return &s, nil
}

// GetLeaderboard returns the top winners by total winnings.
func (r *Repository) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.user_id, COALESCE(p.username, ''), s.total_won, s.total_won - s.total_wagered
		FROM casino_stats s
		LEFT JOIN players p ON p.user_id = s.user_id
		ORDER BY s.total_won DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read casino leaderboard: %w", err)
	}
	defer rows.Close()

	var out []*LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalWon, &e.Profit); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
