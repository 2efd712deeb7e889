package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/robalobadob/tsf/internal/game"
)

// State is the solver's position in its guess/feedback cycle.
type State string

const (
	StateInitializing     State = "initializing"
	StateGuessing         State = "guessing"
	StateAwaitingFeedback State = "awaiting_feedback"
	StateUpdating         State = "updating"
	StateSolved           State = "solved"
	StateExhausted        State = "exhausted"
)

// Terminal reports whether no further guesses will be made.
func (s State) Terminal() bool { return s == StateSolved || s == StateExhausted }

// ErrFinished is returned by Next and Update once the solver is terminal.
var ErrFinished = errors.New("solver finished")

// Contradiction records a round in which the generator had to fall back to
// an arbitrary unused digit. It unwraps to game.ErrContradictoryState.
type Contradiction struct {
	Round     int    `json:"round"`
	Positions []int  `json:"positions"`
	Guess     string `json:"guess"`
}

func (c *Contradiction) Error() string {
	return fmt.Sprintf("round %d: guess %s filled positions %v without support", c.Round, c.Guess, c.Positions)
}

func (c *Contradiction) Unwrap() error { return game.ErrContradictoryState }

// Option configures a Solver.
type Option func(*Solver)

// WithRand fixes the generator's random source, e.g. for reproducible tests.
func WithRand(r *rand.Rand) Option { return func(s *Solver) { s.gen = NewGenerator(r) } }

// WithBudget caps the number of guesses; 0 means unlimited.
func WithBudget(n int) Option { return func(s *Solver) { s.budget = n } }

// WithLogger sets the logger used for deductions and diagnostics.
func WithLogger(l zerolog.Logger) Option { return func(s *Solver) { s.log = l } }

// Solver plays one attempt against one secret. It owns its Knowledge; a new
// attempt needs a new Solver. Not safe for concurrent use.
type Solver struct {
	k           *Knowledge
	gen         *Generator
	log         zerolog.Logger
	state       State
	budget      int
	guesses     int
	pending     game.Code
	diagnostics []*Contradiction
}

// New returns a solver for codes of n digits.
func New(n int, opts ...Option) (*Solver, error) {
	k, err := NewKnowledge(n)
	if err != nil {
		return nil, err
	}
	s := &Solver{k: k, state: StateInitializing, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if s.gen == nil {
		s.gen = NewGenerator(nil)
	}
	if s.budget < 0 {
		return nil, fmt.Errorf("got %d: %w", s.budget, game.ErrInvalidGuessBudget)
	}
	s.state = StateGuessing
	return s, nil
}

// Next returns the solver's next guess. Asking again before feedback
// arrives returns the same guess.
func (s *Solver) Next() (game.Code, error) {
	switch {
	case s.state.Terminal():
		return nil, fmt.Errorf("%s: %w", s.state, ErrFinished)
	case s.state == StateAwaitingFeedback:
		return s.pending.Clone(), nil
	}

	g := s.gen.Next(s.k)
	if pos := g.Contradictory(); len(pos) > 0 {
		c := &Contradiction{Round: s.guesses + 1, Positions: pos, Guess: g.Code.String()}
		s.diagnostics = append(s.diagnostics, c)
		s.log.Warn().Err(c).Interface("knowledge", s.k.Snapshot()).Msg("guess generator fell back to unsupported digits")
	}
	s.pending = g.Code
	s.state = StateAwaitingFeedback
	s.log.Debug().Str("guess", g.Code.String()).Int("round", s.guesses+1).Msg("guess")
	return g.Code.Clone(), nil
}

// Update folds the clues for guess into the solver's knowledge. guess is
// normally the code Next returned, but any valid code is accepted so a
// human-driven round can be fed in too. Invalid input leaves the solver
// unchanged.
func (s *Solver) Update(guess game.Code, clues []game.Clue) error {
	if s.state.Terminal() {
		return fmt.Errorf("%s: %w", s.state, ErrFinished)
	}
	prev := s.state
	s.state = StateUpdating
	before := s.k.confirmedSet().len()
	if err := s.k.Apply(guess, clues); err != nil {
		s.state = prev
		return err
	}
	s.guesses++
	s.pending = nil

	if placed := s.k.confirmedSet().len() - before; placed > 0 {
		s.log.Debug().Int("round", s.guesses).Int("newlyConfirmed", placed).Msg("deduction")
	}
	switch {
	case game.AllHit(clues):
		s.state = StateSolved
	case s.budget > 0 && s.guesses >= s.budget:
		s.state = StateExhausted
	default:
		s.state = StateGuessing
	}
	return nil
}

// State is the current lifecycle state.
func (s *Solver) State() State { return s.state }

// Guesses is the number of rounds folded in so far.
func (s *Solver) Guesses() int { return s.guesses }

// Digits is the code length being solved.
func (s *Solver) Digits() int { return s.k.n }

// Diagnostics returns the contradictions recorded so far.
func (s *Solver) Diagnostics() []*Contradiction {
	return append([]*Contradiction(nil), s.diagnostics...)
}

// Pending is the guess awaiting feedback, or nil.
func (s *Solver) Pending() game.Code { return s.pending.Clone() }

// Snapshot returns a copy of the knowledge state for inspection.
func (s *Solver) Snapshot() Snapshot { return s.k.Snapshot() }
