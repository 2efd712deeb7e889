// internal/httpserver/server.go
//
// HTTP server wiring for the TSF backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Human games (optional auth): POST /game/new, POST /game/guess.
//   - Bot sessions and autoplay (optional auth): mounted under /bot.
//   - Player-versus-bot race (optional auth): mounted under /versus.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Live sessions are held in memory; only accounts and counters reach the DB.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/config"
	"github.com/robalobadob/tsf/internal/daily"
	"github.com/robalobadob/tsf/internal/game"
	"github.com/robalobadob/tsf/internal/metrics"
	"github.com/robalobadob/tsf/internal/store"
	"github.com/robalobadob/tsf/internal/versus"
)

// sessionTTL bounds how long an in-memory session (finished or not) is kept.
const sessionTTL = 24 * time.Hour

// Server bundles router, in-memory session stores, config, and DB handle.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	games   store.Store[*game.Game]
	bots    store.Store[*botSession]
	matches store.Store[*versus.Match]
	board   *daily.Board
	db      *sql.DB
	now     func() time.Time

	gameMu sync.Mutex // serialises ApplyGuess across requests
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, games store.Store[*game.Game], db *sql.DB) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		games:   games,
		bots:    store.NewMemoryStore[*botSession](),
		matches: store.NewMemoryStore[*versus.Match](),
		board:   daily.NewBoard(),
		db:      db,
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time (batch runs are the slow path)
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"tsf-go","endpoints":["/health","/metrics","POST /game/new","POST /game/guess","/bot/*","/versus/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Human games: OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)

	// Bot guesses the player's number, plus autoplay
	s.mountBot(s.r.With(s.withOptionalAuth()))

	// Race: player and bot crack each other's numbers
	s.mountVersus(s.r.With(s.withOptionalAuth()))

	// Daily Challenge: OPTIONAL AUTH (guests play under an anonymous cookie)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeErr maps domain errors to a status and a stable error code.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidDigitCount):
		writeError(w, http.StatusBadRequest, "invalid_digit_count")
	case errors.Is(err, game.ErrInvalidGuessBudget):
		writeError(w, http.StatusBadRequest, "invalid_guess_budget")
	case errors.Is(err, game.ErrLengthMismatch):
		writeError(w, http.StatusBadRequest, "length_mismatch")
	case errors.Is(err, game.ErrMalformedClue):
		writeError(w, http.StatusBadRequest, "malformed_clue")
	case errors.Is(err, game.ErrInvalidSymbol):
		writeError(w, http.StatusBadRequest, "invalid_symbol")
	case errors.Is(err, game.ErrRepeatedSymbol):
		writeError(w, http.StatusBadRequest, "repeated_symbol")
	case errors.Is(err, errInvalidBatch):
		writeError(w, http.StatusBadRequest, "invalid_batch")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrGameFinished), errors.Is(err, bot.ErrFinished):
		writeError(w, http.StatusConflict, "finished")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// chimw.Timeout answers 504 on deadline; a cancelled client is gone.
		log.Warn().Err(err).Msg("request context done")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// pruneSessions evicts sessions older than sessionTTL from every store.
// It runs whenever a new session is created.
func (s *Server) pruneSessions(r *http.Request) {
	cutoff := s.now().Add(-sessionTTL)
	n := s.games.Prune(r.Context(), func(g *game.Game) bool { return g.Started.Before(cutoff) })
	n += s.bots.Prune(r.Context(), func(b *botSession) bool { return b.Started.Before(cutoff) })
	n += s.matches.Prune(r.Context(), func(m *versus.Match) bool { return m.Started.Before(cutoff) })
	if n > 0 {
		log.Debug().Int("evicted", n).Msg("pruned sessions")
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Digits     int    `json:"digits"`
	MaxGuesses int    `json:"maxGuesses"`
	Secret     string `json:"secret"` // optional fixed secret (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	Digits     int    `json:"digits"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNewGame creates a new in-memory game with a random secret unless one
// is supplied.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.pruneSessions(r)

	g, err := game.New(game.Options{Digits: req.Digits, MaxGuesses: req.MaxGuesses, Secret: req.Secret, Now: s.now()})
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	metrics.SessionsStarted.WithLabelValues("human").Inc()
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Digits: g.Digits, MaxGuesses: g.MaxGuesses})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Clues   []game.Clue `json:"clues"`
	Letters string      `json:"letters"`
	State   game.State  `json:"state"`
	Guesses int         `json:"guesses"`
	Secret  string      `json:"secret,omitempty"` // revealed once the game is lost
}

// handleGuess applies a guess to an in-memory game and, when a signed-in
// player's game finishes, bumps their stats.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.gameMu.Lock()
	clues, state, err := g.ApplyGuess(req.Guess)
	used, secret := len(g.Turns), g.Secret.String()
	s.gameMu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	metrics.Guesses.WithLabelValues("human").Inc()

	res := guessRes{Clues: clues, Letters: game.Letters(clues), State: state, Guesses: used}
	if state != game.StatePlaying {
		metrics.Outcomes.WithLabelValues("human", string(state)).Inc()
		if me := currentUser(r); me != nil {
			if err := s.bumpStats(r.Context(), me.ID, state == game.StateWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
		if state == game.StateLost {
			res.Secret = secret
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}
