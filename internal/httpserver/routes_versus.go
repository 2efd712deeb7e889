// internal/httpserver/routes_versus.go
//
// HTTP routes for the race against the bot.
//   - POST /versus/new   → player registers the number the bot must crack
//   - POST /versus/turn  → player guesses; the bot replies in the same round
//   - GET  /versus/{id}  → rounds so far, the bot's next guess, result

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tsf/internal/metrics"
	"github.com/robalobadob/tsf/internal/versus"
)

// mountVersus registers all /versus routes.
func (s *Server) mountVersus(r chi.Router) {
	r.Route("/versus", func(r chi.Router) {
		r.Post("/new", s.handleVersusNew)
		r.Post("/turn", s.handleVersusTurn)
		r.Get("/{id}", s.handleVersusView)
	})
}

type versusNewReq struct {
	Digits        int     `json:"digits"`
	MaxGuesses    int     `json:"maxGuesses"`
	Secret        string  `json:"secret"`        // the player's number, cracked by the bot
	MachineSecret string  `json:"machineSecret"` // optional fixed secret for the player (testing)
	Seed          *uint64 `json:"seed"`
}

func (s *Server) handleVersusNew(w http.ResponseWriter, r *http.Request) {
	var req versusNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.pruneSessions(r)

	m, err := versus.New(versus.Options{
		Digits:        req.Digits,
		MaxGuesses:    req.MaxGuesses,
		PlayerSecret:  req.Secret,
		MachineSecret: req.MachineSecret,
		Rand:          randFor(req.Seed),
		Logger:        log.Logger.With().Str("component", "versus").Logger(),
		Now:           s.now(),
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.matches.Save(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	metrics.SessionsStarted.WithLabelValues("versus").Inc()
	_ = json.NewEncoder(w).Encode(m.View())
}

type versusTurnReq struct {
	VersusID string `json:"versusId"`
	Guess    string `json:"guess"`
}

type versusTurnRes struct {
	versus.Round
	MachineSecret string `json:"machineSecret,omitempty"` // revealed when the match ends
}

func (s *Server) handleVersusTurn(w http.ResponseWriter, r *http.Request) {
	var req versusTurnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	m, err := s.matches.Get(r.Context(), req.VersusID)
	if err != nil {
		writeErr(w, err)
		return
	}
	rd, err := m.Turn(req.Guess)
	if err != nil {
		writeErr(w, err)
		return
	}
	metrics.Guesses.WithLabelValues("human").Inc()
	if rd.Bot != nil {
		metrics.Guesses.WithLabelValues("bot").Inc()
	}

	res := versusTurnRes{Round: rd}
	if rd.Result != versus.ResultPlaying {
		metrics.Outcomes.WithLabelValues("versus", string(rd.Result)).Inc()
		res.MachineSecret = m.View().MachineSecret
		if me := currentUser(r); me != nil {
			if err := s.bumpStats(r.Context(), me.ID, rd.Result == versus.ResultPlayerWon); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleVersusView(w http.ResponseWriter, r *http.Request) {
	m, err := s.matches.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(m.View())
}
