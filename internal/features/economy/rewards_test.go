package economy

import (
	"testing"
	"time"
)

func TestCalculateDailyReward(t *testing.T) {
	tests := []struct {
		name   string
		base   int64
		streak int
		want   int64
	}{
		{"day 1", 100, 1, 105},
		{"day 2", 100, 2, 110},
		{"day 7", 100, 7, 135},
		{"day 10 hits cap", 100, 10, 150},
		{"day 30 stays capped", 100, 30, 150},
		{"zero streak treated as day 1", 100, 0, 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDailyReward(tt.base, tt.streak); got != tt.want {
				t.Errorf("CalculateDailyReward(%d, %d) = %d, want %d",
					tt.base, tt.streak, got, tt.want)
			}
		})
	}
}

func TestNextStreak(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	yesterday := "2026-08-30"

	tests := []struct {
		name string
		prev *DailyClaim
		want int
	}{
		{"no previous claim", nil, 1},
		{"claimed yesterday", &DailyClaim{ClaimDate: day("2026-08-30"), StreakCount: 4}, 5},
		{"missed a day", &DailyClaim{ClaimDate: day("2026-08-28"), StreakCount: 9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStreak(tt.prev, yesterday); got != tt.want {
				t.Errorf("NextStreak = %d, want %d", got, tt.want)
			}
		})
	}
}
