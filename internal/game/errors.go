package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientChips is returned when a bet would exceed the balance.
	ErrInsufficientChips = errors.New("insufficient chips")
	// ErrNoBetPlaced is returned when dealing without a bet.
	ErrNoBetPlaced = errors.New("no bet placed")
	// ErrWrongPhase is returned when a command is not valid in the current phase.
	ErrWrongPhase = errors.New("wrong phase")
	// ErrInvalidBet is returned for a non-positive bet amount.
	ErrInvalidBet = errors.New("invalid bet amount")
)

func wrongPhase(op string, p Phase) error {
	return fmt.Errorf("cannot %s during %s: %w", op, p, ErrWrongPhase)
}
