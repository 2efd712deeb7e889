package game

import (
	"errors"
	"fmt"
)

// Caller-input errors. Operations that return one of these leave any state
// they were asked to mutate untouched.
var (
	ErrInvalidDigitCount  = errors.New("digit count must be between 1 and 10")
	ErrInvalidGuessBudget = errors.New("guess budget must be between 1 and 100")
	ErrLengthMismatch     = errors.New("length mismatch")
	ErrMalformedClue      = errors.New("malformed clue")
	ErrInvalidSymbol      = errors.New("symbol is not a digit")
	ErrRepeatedSymbol     = errors.New("repeated digit")
	ErrGameFinished       = errors.New("game finished")
)

// ErrContradictoryState is diagnostic only: the guess generator had to use
// its last-resort fill. The guess it produced is still well formed.
var ErrContradictoryState = errors.New("contradictory knowledge state")

// ValidDigits reports whether n is a playable code length.
func ValidDigits(n int) bool { return n >= 1 && n <= MaxDigits }

// CheckDigits returns ErrInvalidDigitCount unless n is a playable code length.
func CheckDigits(n int) error {
	if !ValidDigits(n) {
		return fmt.Errorf("got %d: %w", n, ErrInvalidDigitCount)
	}
	return nil
}
