// Package common holds utilities shared by every feature:
// number formatting, pluralization and date helpers.
package common

import (
	"fmt"
	"time"
)

// PluralizeCoins returns "coin" or "coins" for n.
func PluralizeCoins(n int64) string {
	if n == 1 || n == -1 {
		return "coin"
	}
	return "coins"
}

// FormatCoins formats a balance into a readable string.
// Example: FormatCoins(1500) → "1,500 coins"
func FormatCoins(n int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(n), PluralizeCoins(n))
}

// FormatSigned creates a string like "+100 coins" or "-50 coins".
// The sign is added automatically.
func FormatSigned(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%s %s", FormatNumber(amount), PluralizeCoins(amount))
	}
	return fmt.Sprintf("%s %s", FormatNumber(amount), PluralizeCoins(amount))
}

// FormatNumber formats a number with comma thousands separators.
// Example: FormatNumber(2350) → "2,350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	rest := n / 1000
	last := n % 1000

	if rest > 0 {
		return fmt.Sprintf("%s,%03d", FormatNumber(rest), last)
	}
	return fmt.Sprintf("%d", last)
}

// UTCDate returns the date portion of now in UTC.
// Daily claims reset at midnight UTC.
func UTCDate() time.Time {
	t := time.Now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDateTime formats a timestamp as "2006-01-02 15:04" in UTC.
// Used for purchase and transaction history lines.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
