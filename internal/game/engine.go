// internal/game/engine.go
//
// Game engine for a single human-played TSF session.
// Responsibilities:
//   - Create new games with a random (or fixed, for testing) secret.
//   - Validate and apply guesses (length, digits only, no repeats).
//   - Score guesses with the feedback oracle.
//   - Track state transitions: playing → won/lost.

package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDigits     = 4
	DefaultMaxGuesses = 10
	MaxGuessBudget    = 100
)

// Options configures New. Zero values select the defaults.
type Options struct {
	Digits     int
	MaxGuesses int
	Secret     string     // optional fixed secret (testing, daily mode)
	Rand       *rand.Rand // optional source for the random secret
	Now        time.Time  // creation time; zero means time.Now()
}

// New constructs a game. A fixed Secret must be a valid code of Digits
// length; when Digits is zero it is taken from the secret.
func New(opts Options) (*Game, error) {
	digits := opts.Digits
	if digits == 0 {
		digits = DefaultDigits
		if opts.Secret != "" {
			digits = len(opts.Secret)
		}
	}
	if err := CheckDigits(digits); err != nil {
		return nil, err
	}
	budget := opts.MaxGuesses
	if budget == 0 {
		budget = DefaultMaxGuesses
	}
	if budget < 1 || budget > MaxGuessBudget {
		return nil, fmt.Errorf("got %d: %w", budget, ErrInvalidGuessBudget)
	}

	var secret Code
	var err error
	if opts.Secret != "" {
		secret, err = ParseCode(opts.Secret, digits)
	} else {
		secret, err = GenerateSecret(digits, opts.Rand)
	}
	if err != nil {
		return nil, err
	}
	started := opts.Now
	if started.IsZero() {
		started = time.Now()
	}
	return &Game{
		ID:         uuid.NewString(),
		Secret:     secret,
		Digits:     digits,
		MaxGuesses: budget,
		Turns:      []Turn{},
		Started:    started,
	}, nil
}

// ApplyGuess validates and scores a typed guess, mutating the game state.
// Returns the per-position clues and the new state.
//
// State transitions:
//   - If all clues are Hit → Finished = true, Won = true.
//   - Else if the number of guesses reaches MaxGuesses → Finished = true (loss).
func (g *Game) ApplyGuess(raw string) ([]Clue, State, error) {
	if g.Finished {
		return nil, g.State(), ErrGameFinished
	}
	guess, err := ParseCode(raw, g.Digits)
	if err != nil {
		return nil, g.State(), err
	}
	clues, err := Evaluate(guess, g.Secret)
	if err != nil {
		return nil, g.State(), err
	}
	g.Turns = append(g.Turns, Turn{Guess: guess, Clues: clues})

	if AllHit(clues) {
		g.Finished, g.Won = true, true
	} else if len(g.Turns) >= g.MaxGuesses {
		g.Finished = true
	}
	return clues, g.State(), nil
}

// State reports the current lifecycle state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Remaining is the number of guesses left in the budget.
func (g *Game) Remaining() int { return g.MaxGuesses - len(g.Turns) }
