// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's code
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can play once per day. Sessions and results live in memory
// for the lifetime of the process; the code is derived from date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tsf/internal/daily"
	"github.com/robalobadob/tsf/internal/game"
	"github.com/robalobadob/tsf/internal/metrics"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards sessions and their games
}

// dailySession holds transient state for an in-progress daily game.
type dailySession struct {
	PlayerID string
	Date     string
	Game     *game.Game
	Start    time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, sessions: make(map[string]*dailySession)}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID     string `json:"gameId"`
	Date       string `json:"date"`
	Digits     int    `json:"digits"`
	MaxGuesses int    `json:"maxGuesses"`
	Played     bool   `json:"played"`
}

// handleNew creates or reuses today's session.
//   - If the player already has a result for today → Played=true.
//   - Otherwise create/reuse a session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)
	res := dailyNewRes{Date: date, Digits: d.srv.cfg.DailyDigits, MaxGuesses: game.DefaultMaxGuesses}

	if d.srv.board.AlreadyPlayed(pid, date) {
		res.Played = true
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)
	if sess, ok := d.sessions[key]; ok {
		res.GameID = sess.Game.ID
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	secret, err := daily.Code(now, d.srv.cfg.DailySalt, d.srv.cfg.DailyDigits)
	if err != nil {
		log.Error().Err(err).Msg("daily code")
		writeErr(w, err)
		return
	}
	g, err := game.New(game.Options{Secret: secret.String()})
	if err != nil {
		writeErr(w, err)
		return
	}
	d.sessions[key] = &dailySession{PlayerID: pid, Date: date, Game: g, Start: now}
	metrics.SessionsStarted.WithLabelValues("daily").Inc()

	res.GameID = g.ID
	res.MaxGuesses = g.MaxGuesses
	_ = json.NewEncoder(w).Encode(res)
}

// pruneLocked drops sessions from earlier days. Caller holds d.mu.
func (d *dailyServer) pruneLocked(today string) {
	for k, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

// dailyGuessReq is the request payload for /daily/guess.
type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// dailyGuessRes is the response payload for /daily/guess.
type dailyGuessRes struct {
	Clues   []game.Clue `json:"clues"`
	Letters string      `json:"letters"`
	State   string      `json:"state"` // playing | won | lost | locked
	Guesses int         `json:"guesses"`
}

// handleGuess validates and applies a guess for today's session. A finished
// session answers "locked"; a finished game is recorded on the board.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	now := d.srv.now()
	date := daily.DateKey(now)

	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[pid+"|"+date]
	if !ok || sess.Game.ID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	if sess.Game.Finished {
		_ = json.NewEncoder(w).Encode(dailyGuessRes{Clues: []game.Clue{}, State: "locked", Guesses: len(sess.Game.Turns)})
		return
	}

	clues, state, err := sess.Game.ApplyGuess(p.Guess)
	if err != nil {
		writeErr(w, err)
		return
	}
	metrics.Guesses.WithLabelValues("human").Inc()
	if state != game.StatePlaying {
		metrics.Outcomes.WithLabelValues("daily", string(state)).Inc()
		d.srv.board.Insert(daily.Result{
			PlayerID:  pid,
			Date:      date,
			Guesses:   len(sess.Game.Turns),
			ElapsedMs: int(now.Sub(sess.Start).Milliseconds()),
			Won:       state == game.StateWon,
		})
	}
	_ = json.NewEncoder(w).Encode(dailyGuessRes{
		Clues:   clues,
		Letters: game.Letters(clues),
		State:   string(state),
		Guesses: len(sess.Game.Turns),
	})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: d.srv.board.Leaderboard(date, limit)})
}
