// internal/game/types.go
//
// Core type definitions for the TSF game.
// Defines:
//   - Alphabet: the ten digit symbols a code is drawn from.
//   - Code: an ordered sequence of distinct digits (a secret or a guess).
//   - Clue: per-position result of a guess (hit/present/absent).
//   - Game: state for a single human-played session.

package game

import (
	"fmt"
	"strings"
	"time"
)

// Alphabet is the fixed symbol set codes are drawn from.
const Alphabet = "0123456789"

// MaxDigits is the longest code possible with distinct symbols.
const MaxDigits = len(Alphabet)

// Code is an ordered sequence of ASCII digits.
// Valid codes never repeat a digit.
type Code []byte

// String renders the code as typed by a player, e.g. "4321".
func (c Code) String() string { return string(c) }

// Validate checks that every symbol is a digit and no digit repeats.
// Length is checked by callers, who know the expected size.
func (c Code) Validate() error {
	var seen [MaxDigits]bool
	for i, d := range c {
		if d < '0' || d > '9' {
			return fmt.Errorf("position %d (%q): %w", i, d, ErrInvalidSymbol)
		}
		if seen[d-'0'] {
			return fmt.Errorf("digit %q: %w", d, ErrRepeatedSymbol)
		}
		seen[d-'0'] = true
	}
	return nil
}

// Clone returns an independent copy.
func (c Code) Clone() Code { return append(Code(nil), c...) }

// Clue represents the evaluation result for a single digit in a guess.
// Possible values:
//   - "hit":     digit is correct and in the correct position.
//   - "present": digit exists in the secret but in a different position.
//   - "absent":  digit does not exist in the secret at all.
type Clue string

const (
	ClueHit     Clue = "hit"
	CluePresent Clue = "present"
	ClueAbsent  Clue = "absent"
)

// Valid reports whether c is one of the three clue values.
func (c Clue) Valid() bool {
	return c == ClueHit || c == CluePresent || c == ClueAbsent
}

// Letter returns the single-letter form players type: T, S or F.
func (c Clue) Letter() byte {
	switch c {
	case ClueHit:
		return 'T'
	case CluePresent:
		return 'S'
	case ClueAbsent:
		return 'F'
	}
	return '?'
}

// Letters renders clues in typed form, e.g. "TSFF".
func Letters(clues []Clue) string {
	var b strings.Builder
	b.Grow(len(clues))
	for _, c := range clues {
		b.WriteByte(c.Letter())
	}
	return b.String()
}

// AllHit reports whether every clue is a hit.
// An empty slice is not a win.
func AllHit(clues []Clue) bool {
	if len(clues) == 0 {
		return false
	}
	for _, c := range clues {
		if c != ClueHit {
			return false
		}
	}
	return true
}

// State is the coarse lifecycle of a Game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Turn records one guess and the clues it earned.
type Turn struct {
	Guess Code   `json:"guess"`
	Clues []Clue `json:"clues"`
}

// Game holds the state of a single human-played session.
type Game struct {
	ID         string    // Unique game identifier.
	Secret     Code      // The hidden code.
	Digits     int       // Code length.
	MaxGuesses int       // Guess budget for the session.
	Turns      []Turn    // Guesses made so far, oldest first.
	Finished   bool      // True once the game is over (won or lost).
	Won        bool      // True if the game was finished with a win.
	Started    time.Time // Creation time, used to evict stale sessions.
}

// Key identifies the game in a session store.
func (g *Game) Key() string { return g.ID }
