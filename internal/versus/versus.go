// Package versus runs the head-to-head race: the player cracks a machine
// secret while the bot cracks the player's number. Each round is one player
// guess then one bot guess, both drawn from the same budget; the first
// all-hit wins and a budget that runs out ends the match as a draw.
package versus

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/game"
)

// Result is the match outcome.
type Result string

const (
	ResultPlaying   Result = "playing"
	ResultPlayerWon Result = "player_won"
	ResultBotWon    Result = "bot_won"
	ResultDraw      Result = "draw"
)

// Options configures New. Zero values select the game defaults.
type Options struct {
	Digits        int
	MaxGuesses    int
	PlayerSecret  string // the number the bot has to crack
	MachineSecret string // optional fixed secret for the player (testing)
	Rand          *rand.Rand
	Logger        zerolog.Logger
	Now           time.Time
}

// Move is one guess and its clue letters.
type Move struct {
	Guess string `json:"guess"`
	Clues string `json:"clues"`
}

// Round is the record of one player move and the bot's reply.
type Round struct {
	Number  int    `json:"round"`
	Player  Move   `json:"player"`
	Bot     *Move  `json:"bot,omitempty"` // absent when the player won first
	Result  Result `json:"result"`
	BotNext string `json:"botNext,omitempty"`
}

// Match is one race. Safe for concurrent use.
type Match struct {
	ID      string
	Started time.Time

	mu           sync.Mutex // guards everything below
	human        *game.Game
	solver       *bot.Solver
	playerSecret game.Code
	result       Result
	rounds       []Round
}

// New sets up both sides; the bot's opening guess is ready immediately.
func New(opts Options) (*Match, error) {
	digits := opts.Digits
	if digits == 0 && opts.PlayerSecret != "" {
		digits = len(opts.PlayerSecret)
	}
	human, err := game.New(game.Options{
		Digits:     digits,
		MaxGuesses: opts.MaxGuesses,
		Secret:     opts.MachineSecret,
		Rand:       opts.Rand,
		Now:        opts.Now,
	})
	if err != nil {
		return nil, err
	}
	ps, err := game.ParseCode(opts.PlayerSecret, human.Digits)
	if err != nil {
		return nil, fmt.Errorf("player secret: %w", err)
	}
	solver, err := bot.New(human.Digits,
		bot.WithRand(opts.Rand),
		bot.WithBudget(human.MaxGuesses),
		bot.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, err
	}
	if _, err := solver.Next(); err != nil {
		return nil, err
	}
	return &Match{
		ID:           human.ID,
		Started:      human.Started,
		human:        human,
		solver:       solver,
		playerSecret: ps,
		result:       ResultPlaying,
	}, nil
}

func (m *Match) Key() string { return m.ID }

// Turn plays one round. A rejected guess costs nothing.
func (m *Match) Turn(raw string) (Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result != ResultPlaying {
		return Round{}, fmt.Errorf("match %s: %w", m.result, game.ErrGameFinished)
	}

	clues, state, err := m.human.ApplyGuess(raw)
	if err != nil {
		return Round{}, err
	}
	last := m.human.Turns[len(m.human.Turns)-1]
	rd := Round{Number: len(m.human.Turns), Player: Move{Guess: last.Guess.String(), Clues: game.Letters(clues)}}

	if state == game.StateWon {
		m.result = ResultPlayerWon
	} else {
		guess, err := m.solver.Next()
		if err != nil {
			return Round{}, err
		}
		botClues, err := game.Evaluate(guess, m.playerSecret)
		if err != nil {
			return Round{}, err
		}
		if err := m.solver.Update(guess, botClues); err != nil {
			return Round{}, err
		}
		rd.Bot = &Move{Guess: guess.String(), Clues: game.Letters(botClues)}

		switch {
		case m.solver.State() == bot.StateSolved:
			m.result = ResultBotWon
		case state == game.StateLost:
			m.result = ResultDraw
		default:
			next, err := m.solver.Next()
			if err != nil {
				return Round{}, err
			}
			rd.BotNext = next.String()
		}
	}
	rd.Result = m.result
	m.rounds = append(m.rounds, rd)
	return rd, nil
}

// View is a read-only picture of a match. The machine secret is only
// revealed once the match is over.
type View struct {
	ID            string  `json:"versusId"`
	Digits        int     `json:"digits"`
	MaxGuesses    int     `json:"maxGuesses"`
	Result        Result  `json:"result"`
	Rounds        []Round `json:"rounds"`
	BotGuess      string  `json:"botGuess,omitempty"`
	MachineSecret string  `json:"machineSecret,omitempty"`
}

// View copies the match state.
func (m *Match) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		ID:         m.ID,
		Digits:     m.human.Digits,
		MaxGuesses: m.human.MaxGuesses,
		Result:     m.result,
		Rounds:     append([]Round{}, m.rounds...),
		BotGuess:   m.solver.Pending().String(),
	}
	if m.result != ResultPlaying {
		v.MachineSecret = m.human.Secret.String()
	}
	return v
}

// Over reports whether the match has a result.
func (m *Match) Over() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result != ResultPlaying
}
