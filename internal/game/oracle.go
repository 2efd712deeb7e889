// internal/game/oracle.go
//
// Feedback oracle and secret generation.
//
// Evaluate is a pure per-position comparison. It relies on both codes holding
// distinct digits (guaranteed by ParseCode / Code.Validate upstream), so no
// duplicate-counting pass is needed, unlike the classic two-pass Wordle
// scorer.

package game

import (
	"bytes"
	"fmt"
	"math/rand/v2"
)

// Evaluate compares guess to secret position by position:
//   - Hit     if guess[i] == secret[i]
//   - Present if guess[i] occurs elsewhere in secret
//   - Absent  otherwise
//
// Both codes must have equal length (ErrLengthMismatch) and distinct digits.
// A guess that repeats a digit present once in the secret would earn more
// than one Present for it; callers must not pass such guesses.
func Evaluate(guess, secret Code) ([]Clue, error) {
	if len(guess) != len(secret) {
		return nil, fmt.Errorf("guess has %d digits, secret has %d: %w", len(guess), len(secret), ErrLengthMismatch)
	}
	out := make([]Clue, len(guess))
	for i, d := range guess {
		switch {
		case d == secret[i]:
			out[i] = ClueHit
		case bytes.IndexByte(secret, d) >= 0:
			out[i] = CluePresent
		default:
			out[i] = ClueAbsent
		}
	}
	return out, nil
}

// GenerateSecret draws n distinct digits uniformly at random.
// A nil r uses the package-level source.
func GenerateSecret(n int, r *rand.Rand) (Code, error) {
	if err := CheckDigits(n); err != nil {
		return nil, err
	}
	pool := []byte(Alphabet)
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return Code(pool[:n]), nil
}

// ParseCode reads a typed code such as "4321" of exactly n distinct digits.
func ParseCode(s string, n int) (Code, error) {
	if len(s) != n {
		return nil, fmt.Errorf("code %q has %d symbols, want %d: %w", s, len(s), n, ErrLengthMismatch)
	}
	c := Code(s)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// ParseClues reads typed clue letters of exactly n symbols.
// T = hit, S or C = present, F = absent; case-insensitive.
func ParseClues(s string, n int) ([]Clue, error) {
	if len(s) != n {
		return nil, fmt.Errorf("clues %q have %d symbols, want %d: %w", s, len(s), n, ErrLengthMismatch)
	}
	out := make([]Clue, n)
	for i := 0; i < n; i++ {
		switch s[i] {
		case 'T', 't':
			out[i] = ClueHit
		case 'S', 's', 'C', 'c':
			out[i] = CluePresent
		case 'F', 'f':
			out[i] = ClueAbsent
		default:
			return nil, fmt.Errorf("position %d (%q): %w", i, s[i], ErrMalformedClue)
		}
	}
	return out, nil
}

// CheckClues validates clues that did not come from ParseClues.
func CheckClues(clues []Clue, n int) error {
	if len(clues) != n {
		return fmt.Errorf("got %d clues, want %d: %w", len(clues), n, ErrLengthMismatch)
	}
	for i, c := range clues {
		if !c.Valid() {
			return fmt.Errorf("position %d (%q): %w", i, c, ErrMalformedClue)
		}
	}
	return nil
}
