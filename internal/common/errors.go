// Package common — errors.go defines the sentinel errors shared across
// features. Handlers match on these to pick a user-facing reply instead
// of parsing error strings.
package common

import "errors"

// Economy errors (coins, transfers, daily claims)
var (
	// ErrInsufficientBalance — not enough coins on the account
	ErrInsufficientBalance = errors.New("not enough coins")
	// ErrSelfTransfer — attempt to send coins to yourself
	ErrSelfTransfer = errors.New("cannot transfer coins to yourself")
	// ErrInvalidAmount — zero or negative amount
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrUserNotFound — user has no record in the database
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyClaimed — daily reward already claimed today
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")
)

// Pack errors
var (
	// ErrPackNotFound — no active pack with that name or id
	ErrPackNotFound = errors.New("pack not found or not available")
	// ErrPackExpired — limited-time pack past its availability window
	ErrPackExpired = errors.New("this pack is no longer available")
	// ErrPackAlreadyOpened — opening a pack twice
	ErrPackAlreadyOpened = errors.New("this pack has already been opened")
)

// Casino errors
var (
	// ErrCasinoDisabled — casino switched off in config
	ErrCasinoDisabled = errors.New("the casino is temporarily closed")
	// ErrBetOutOfRange — bet below the minimum or above the game cap
	ErrBetOutOfRange = errors.New("bet is outside the allowed range")
	// ErrGameInProgress — player already has a live game
	ErrGameInProgress = errors.New("you already have an active game")
	// ErrInvalidGuess — malformed call (coin side, die face, roulette bet)
	ErrInvalidGuess = errors.New("invalid guess")
)

// Operator errors
var (
	// ErrNotOperator — caller has no operator session
	ErrNotOperator = errors.New("you are not logged in as an operator")
	// ErrWrongPassword — operator password mismatch
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts — login attempt limit reached
	ErrTooManyAttempts = errors.New("too many attempts, wait an hour")
)
