package casino

import "time"

// GameRecord is one finished round in the casino_games log.
type GameRecord struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Game      string    `db:"game"`
	Bet       int64     `db:"bet"`
	Payout    int64     `db:"payout"`
	Detail    string    `db:"detail"` // short human summary, e.g. "🍒🍒🍋"
	CreatedAt time.Time `db:"created_at"`
}

// Stats is one user's aggregated casino record.
type Stats struct {
	UserID       string `db:"user_id"`
	GamesPlayed  int64  `db:"games_played"`
	TotalWagered int64  `db:"total_wagered"`
	TotalWon     int64  `db:"total_won"`
	BiggestWin   int64  `db:"biggest_win"`
	SlotsPlayed  int64  `db:"slots_played"`
	FlipsPlayed  int64  `db:"flips_played"`
	DicePlayed      int64 `db:"dice_played"`
	SpinsPlayed     int64 `db:"spins_played"`
	BlackjackPlayed int64 `db:"blackjack_played"`
}

// LeaderboardEntry is one row of !casinolb.
type LeaderboardEntry struct {
	UserID   string `db:"user_id"`
	Username string `db:"username"`
	TotalWon int64  `db:"total_won"`
	Profit   int64  `db:"profit"`
}
