// internal/sim/sim.go
//
// Autoplay: drives a bot.Solver against the feedback oracle.
// Responsibilities:
//   - Play one game to Solved/Exhausted and return its transcript.
//   - Run many independent games concurrently and summarise them.
//
// Each game owns its solver and random sources, so workers share nothing.

package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/game"
)

// Transcript is the record of one autoplayed game.
type Transcript struct {
	Secret      string               `json:"secret"`
	Turns       []Turn               `json:"turns"`
	State       bot.State            `json:"state"`
	Guesses     int                  `json:"guesses"`
	Diagnostics []*bot.Contradiction `json:"diagnostics,omitempty"`
}

// Turn is one guess and its clue letters.
type Turn struct {
	Guess string `json:"guess"`
	Clues string `json:"clues"`
}

// Play runs s against secret until s reaches a terminal state.
// ctx is checked between turns.
func Play(ctx context.Context, s *bot.Solver, secret game.Code) (Transcript, error) {
	tr := Transcript{Secret: secret.String()}
	if len(secret) != s.Digits() {
		return tr, fmt.Errorf("secret has %d digits, solver expects %d: %w", len(secret), s.Digits(), game.ErrLengthMismatch)
	}
	for !s.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		g, err := s.Next()
		if err != nil {
			return tr, err
		}
		clues, err := game.Evaluate(g, secret)
		if err != nil {
			return tr, err
		}
		if err := s.Update(g, clues); err != nil {
			return tr, err
		}
		tr.Turns = append(tr.Turns, Turn{Guess: g.String(), Clues: game.Letters(clues)})
	}
	tr.State = s.State()
	tr.Guesses = s.Guesses()
	tr.Diagnostics = s.Diagnostics()
	return tr, nil
}

// BatchConfig describes a batch of autoplayed games.
type BatchConfig struct {
	Digits  int
	Games   int
	Workers int    // concurrent games; <= 0 means 4
	Budget  int    // per-game guess budget; 0 = unlimited
	Seed    uint64 // batch seed; game i derives its own sources from it
	Logger  zerolog.Logger
}

// Summary aggregates a batch.
type Summary struct {
	Games          int     `json:"games"`
	Solved         int     `json:"solved"`
	Exhausted      int     `json:"exhausted"`
	MeanGuesses    float64 `json:"meanGuesses"` // over solved games
	MostGuesses    int     `json:"mostGuesses"`
	Contradictions int     `json:"contradictions"`
}

// Batch plays cfg.Games independent games and summarises them. The result
// depends only on cfg, not on scheduling.
func Batch(ctx context.Context, cfg BatchConfig) (Summary, error) {
	if err := game.CheckDigits(cfg.Digits); err != nil {
		return Summary{}, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	var (
		mu  sync.Mutex
		sum = Summary{Games: cfg.Games}
		tot int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Games; i++ {
		g.Go(func() error {
			r := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			secret, err := game.GenerateSecret(cfg.Digits, r)
			if err != nil {
				return err
			}
			s, err := bot.New(cfg.Digits,
				bot.WithRand(rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))),
				bot.WithBudget(cfg.Budget),
				bot.WithLogger(cfg.Logger.With().Int("game", i).Logger()),
			)
			if err != nil {
				return err
			}
			tr, err := Play(ctx, s, secret)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			mu.Lock()
			defer mu.Unlock()
			switch tr.State {
			case bot.StateSolved:
				sum.Solved++
				tot += tr.Guesses
				sum.MostGuesses = max(sum.MostGuesses, tr.Guesses)
			case bot.StateExhausted:
				sum.Exhausted++
			}
			sum.Contradictions += len(tr.Diagnostics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	if sum.Solved > 0 {
		sum.MeanGuesses = float64(tot) / float64(sum.Solved)
	}
	return sum, nil
}
