package app

import (
	"strings"
	"testing"
)

// The repositories hard-code column names in their SQL; each one must
// exist in the DDL that sets up a fresh database, or the first query
// against the table fails with an undefined-column error.
func TestMigrationsCoverRepositoryColumns(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		columns []string
	}{
		{"players", migration001Players, []string{
			"user_id", "username", "cars_caught", "packs_opened", "total_coins_earned",
		}},
		{"balances", migration002Economy, []string{
			"balance", "lifetime_earned", "lifetime_spent", "updated_at",
		}},
		{"transactions", migration002Economy, []string{
			"from_user_id", "to_user_id", "amount", "transaction_type", "description",
		}},
		{"daily_claims", migration002Economy, []string{
			"claim_date", "amount_claimed", "streak_count",
		}},
		{"cars", migration003Garage, []string{
			"name", "model", "year", "horsepower", "weight", "rarity",
			"car_type", "is_exclusive", "image_url",
		}},
		{"owned_cars", migration003Garage, []string{
			"car_id", "caught_at", "catch_bonus", "is_shiny", "is_favorite",
		}},
		{"packs", migration004Packs, []string{
			"price", "guaranteed_cars", "chance_legendary", "chance_epic",
			"chance_rare", "is_active", "available_from", "available_until",
		}},
		{"pack_entries", migration004Packs, []string{"pack_id", "drop_weight"}},
		{"user_packs", migration004Packs, []string{"purchased_at", "opened_at"}},
		{"casino_games", migration005Casino, []string{"game", "bet", "payout", "detail"}},
		{"casino_stats", migration005Casino, []string{
			"games_played", "total_wagered", "total_won", "biggest_win",
			"slots_played", "flips_played", "dice_played", "spins_played",
			"blackjack_played",
		}},
		{"operator_sessions", migration006Operator, []string{
			"session_token", "authenticated_at", "expires_at", "last_activity", "is_active",
		}},
		{"operator_login_attempts", migration006Operator, []string{
			"user_id", "success", "attempt_time",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.sql, tt.name) {
				t.Fatalf("migration does not create table %q", tt.name)
			}
			for _, col := range tt.columns {
				if !strings.Contains(tt.sql, col) {
					t.Errorf("migration for %s is missing column %q", tt.name, col)
				}
			}
		})
	}
}
