// internal/httpserver/routes_bot.go
//
// HTTP routes for the solver.
//   - POST /bot/new       → start a session where the bot guesses the player's number
//   - POST /bot/clues     → feed the player's T/S/F clues for the bot's guess
//   - GET  /bot/{id}      → debug snapshot of the bot's knowledge
//   - POST /bot/simulate  → bot plays a whole game against the oracle
//   - POST /bot/batch     → many autoplayed games, summarised
//
// The player's secret never reaches the server in bot mode; only clues do.

package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/game"
	"github.com/robalobadob/tsf/internal/metrics"
	"github.com/robalobadob/tsf/internal/sim"
)

const (
	maxBatchGames   = 10000
	maxBatchWorkers = 32
)

var errInvalidBatch = errors.New("invalid batch size")

// botSession is one "bot guesses your number" attempt.
type botSession struct {
	ID      string
	Owner   string // user ID when signed in; empty for guests
	Started time.Time

	mu     sync.Mutex // guards solver
	solver *bot.Solver
}

func (b *botSession) Key() string { return b.ID }

// mountBot registers all /bot routes.
func (s *Server) mountBot(r chi.Router) {
	r.Route("/bot", func(r chi.Router) {
		r.Post("/new", s.handleBotNew)
		r.Post("/clues", s.handleBotClues)
		r.Post("/simulate", s.handleBotSimulate)
		r.Post("/batch", s.handleBotBatch)
		r.Get("/{id}", s.handleBotSnapshot)
	})
}

// randFor returns a seeded source when seed is set, nil (entropy) otherwise.
func randFor(seed *uint64) *rand.Rand {
	if seed == nil {
		return nil
	}
	return rand.New(rand.NewPCG(*seed, *seed))
}

// checkBudget validates a guess budget where 0 means unlimited.
func checkBudget(n int) error {
	if n < 0 || n > game.MaxGuessBudget {
		return game.ErrInvalidGuessBudget
	}
	return nil
}

// -----------------------------------------------------------------------------
// /bot/new

type botNewReq struct {
	Digits     int     `json:"digits"`
	MaxGuesses int     `json:"maxGuesses"` // 0 → game.DefaultMaxGuesses
	Seed       *uint64 `json:"seed"`
}

type botNewRes struct {
	BotID      string `json:"botId"`
	Digits     int    `json:"digits"`
	MaxGuesses int    `json:"maxGuesses"`
	Guess      string `json:"guess"`
}

func (s *Server) handleBotNew(w http.ResponseWriter, r *http.Request) {
	var req botNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Digits == 0 {
		req.Digits = game.DefaultDigits
	}
	if req.MaxGuesses == 0 {
		req.MaxGuesses = game.DefaultMaxGuesses
	}
	if err := checkBudget(req.MaxGuesses); err != nil {
		writeErr(w, err)
		return
	}
	s.pruneSessions(r)

	id := uuid.NewString()
	solver, err := bot.New(req.Digits,
		bot.WithRand(randFor(req.Seed)),
		bot.WithBudget(req.MaxGuesses),
		bot.WithLogger(log.Logger.With().Str("botId", id).Logger()),
	)
	if err != nil {
		writeErr(w, err)
		return
	}
	guess, err := solver.Next()
	if err != nil {
		writeErr(w, err)
		return
	}
	sess := &botSession{ID: id, Started: s.now(), solver: solver}
	if me := currentUser(r); me != nil {
		sess.Owner = me.ID
	}
	if err := s.bots.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	metrics.SessionsStarted.WithLabelValues("bot").Inc()
	_ = json.NewEncoder(w).Encode(botNewRes{BotID: id, Digits: req.Digits, MaxGuesses: req.MaxGuesses, Guess: guess.String()})
}

// -----------------------------------------------------------------------------
// /bot/clues

type botCluesReq struct {
	BotID string `json:"botId"`
	Guess string `json:"guess"` // optional; defaults to the bot's pending guess
	Clues string `json:"clues"` // T/S/F letters, one per position
}

type botCluesRes struct {
	State   bot.State `json:"state"`
	Guesses int       `json:"guesses"`
	Next    string    `json:"next,omitempty"`
}

func (s *Server) handleBotClues(w http.ResponseWriter, r *http.Request) {
	var req botCluesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.bots.Get(r.Context(), req.BotID)
	if err != nil {
		writeErr(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sv := sess.solver

	var guess game.Code
	if req.Guess != "" {
		guess, err = game.ParseCode(req.Guess, sv.Digits())
	} else {
		guess, err = sv.Next()
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	clues, err := game.ParseClues(req.Clues, sv.Digits())
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := sv.Update(guess, clues); err != nil {
		writeErr(w, err)
		return
	}
	metrics.Guesses.WithLabelValues("bot").Inc()

	res := botCluesRes{Guesses: sv.Guesses()}
	if sv.State().Terminal() {
		metrics.SolverFinished(sv.Digits(), string(sv.State()), sv.Guesses(), len(sv.Diagnostics()))
		if sess.Owner != "" {
			s.bumpBotStats(r.Context(), sess.Owner, sv.State() == bot.StateSolved)
		}
	} else {
		next, err := sv.Next()
		if err != nil {
			writeErr(w, err)
			return
		}
		res.Next = next.String()
	}
	res.State = sv.State()
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /bot/{id}

type botSnapshotRes struct {
	BotID       string               `json:"botId"`
	State       bot.State            `json:"state"`
	Guesses     int                  `json:"guesses"`
	Pending     string               `json:"pending,omitempty"`
	Knowledge   bot.Snapshot         `json:"knowledge"`
	Diagnostics []*bot.Contradiction `json:"diagnostics"`
}

func (s *Server) handleBotSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.bots.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	sess.mu.Lock()
	res := botSnapshotRes{
		BotID:       sess.ID,
		State:       sess.solver.State(),
		Guesses:     sess.solver.Guesses(),
		Pending:     sess.solver.Pending().String(),
		Knowledge:   sess.solver.Snapshot(),
		Diagnostics: sess.solver.Diagnostics(),
	}
	sess.mu.Unlock()
	if res.Diagnostics == nil {
		res.Diagnostics = []*bot.Contradiction{}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /bot/simulate

type simulateReq struct {
	Digits     int     `json:"digits"`
	Secret     string  `json:"secret"` // optional; random when empty
	Seed       *uint64 `json:"seed"`
	MaxGuesses int     `json:"maxGuesses"` // 0 = unlimited
}

func (s *Server) handleBotSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Digits == 0 {
		req.Digits = game.DefaultDigits
		if req.Secret != "" {
			req.Digits = len(req.Secret)
		}
	}
	if err := checkBudget(req.MaxGuesses); err != nil {
		writeErr(w, err)
		return
	}
	if err := game.CheckDigits(req.Digits); err != nil {
		writeErr(w, err)
		return
	}

	rnd := randFor(req.Seed)
	var secret game.Code
	var err error
	if req.Secret != "" {
		secret, err = game.ParseCode(req.Secret, req.Digits)
	} else {
		secret, err = game.GenerateSecret(req.Digits, rnd)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	solver, err := bot.New(req.Digits,
		bot.WithRand(rnd),
		bot.WithBudget(req.MaxGuesses),
		bot.WithLogger(log.Logger.With().Str("requestId", chimw.GetReqID(r.Context())).Logger()),
	)
	if err != nil {
		writeErr(w, err)
		return
	}
	metrics.SessionsStarted.WithLabelValues("simulate").Inc()
	tr, err := sim.Play(r.Context(), solver, secret)
	if err != nil {
		writeErr(w, err)
		return
	}
	metrics.Guesses.WithLabelValues("bot").Add(float64(tr.Guesses))
	metrics.SolverFinished(req.Digits, string(tr.State), tr.Guesses, len(tr.Diagnostics))
	_ = json.NewEncoder(w).Encode(tr)
}

// -----------------------------------------------------------------------------
// /bot/batch

type batchReq struct {
	Digits     int    `json:"digits"`
	Games      int    `json:"games"`
	Workers    int    `json:"workers"`
	Seed       uint64 `json:"seed"`
	MaxGuesses int    `json:"maxGuesses"` // 0 = unlimited
}

func (s *Server) handleBotBatch(w http.ResponseWriter, r *http.Request) {
	var req batchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Digits == 0 {
		req.Digits = game.DefaultDigits
	}
	if req.Games < 1 || req.Games > maxBatchGames || req.Workers > maxBatchWorkers {
		writeErr(w, errInvalidBatch)
		return
	}
	if err := checkBudget(req.MaxGuesses); err != nil {
		writeErr(w, err)
		return
	}
	metrics.SessionsStarted.WithLabelValues("simulate").Add(float64(req.Games))
	sum, err := sim.Batch(r.Context(), sim.BatchConfig{
		Digits:  req.Digits,
		Games:   req.Games,
		Workers: req.Workers,
		Budget:  req.MaxGuesses,
		Seed:    req.Seed,
		Logger:  log.Logger.With().Str("requestId", chimw.GetReqID(r.Context())).Logger(),
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	log.Info().Int("games", sum.Games).Int("solved", sum.Solved).Float64("meanGuesses", sum.MeanGuesses).Msg("batch finished")
	_ = json.NewEncoder(w).Encode(sum)
}
