// Package economy — rewards.go computes the daily-claim streak bonus.
package economy

// maxStreakBonus caps the bonus at +50% (reached at streak day 10).
const maxStreakBonus = 0.5

// streakBonusStep adds +5% per consecutive day.
const streakBonusStep = 0.05

// CalculateDailyReward returns the coin amount for a claim on streak day
// `streak` (1 = first day). Bonus = min(streak*5%, 50%) of the base.
func CalculateDailyReward(base int64, streak int) int64 {
	if streak < 1 {
		streak = 1
	}
	bonus := float64(streak) * streakBonusStep
	if bonus > maxStreakBonus {
		bonus = maxStreakBonus
	}
	return int64(float64(base) * (1 + bonus))
}

// NextStreak returns the streak day for a claim today given the previous
// claim. A claim yesterday continues the streak, anything older restarts
// it. yesterday is in "2006-01-02" form.
func NextStreak(prev *DailyClaim, yesterday string) int {
	if prev == nil {
		return 1
	}
	if prev.ClaimDate.Format("2006-01-02") == yesterday {
		return prev.StreakCount + 1
	}
	return 1
}
