package service

import (
	"errors"
	"fmt"
	"time"
)

// Domain validation failures. All of these are recoverable: callers
// surface them as user-facing replies and never treat them as fatal.
var (
	// ErrUnknownReward is returned when a reward name is not configured
	// for the guild
	ErrUnknownReward = errors.New("unknown reward")

	// ErrInsufficientBalance is returned when a redemption costs more
	// than the user holds
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotFound is returned when a user or guild has never been seen
	ErrNotFound = errors.New("not found")
)

// CooldownActiveError is returned when a gamble is attempted before the
// per-user cooldown has elapsed
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active: %s remaining", e.Remaining.Round(time.Second))
}
