package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/config"
	"github.com/robalobadob/tsf/internal/daily"
	"github.com/robalobadob/tsf/internal/db"
	"github.com/robalobadob/tsf/internal/game"
	"github.com/robalobadob/tsf/internal/sim"
	"github.com/robalobadob/tsf/internal/store"
	"github.com/robalobadob/tsf/internal/versus"
)

// testNow sits at the start of the current UTC day so cookie and token
// expiries computed from it are still in the future for the cookie jar.
var testNow = time.Now().UTC().Truncate(24 * time.Hour)

type harness struct {
	t   *testing.T
	srv *Server
	ts  *httptest.Server
	c   *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "tsf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })
	require.NoError(t, db.Migrate(context.Background(), sqldb))

	cfg := config.Config{
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "tsf_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "test_salt",
		DailyDigits:    4,
	}
	srv := New(cfg, store.NewMemoryStore[*game.Game](), sqldb)
	srv.now = func() time.Time { return testNow }

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{t: t, srv: srv, ts: ts, c: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the response into out (when non-nil).
func (h *harness) do(method, path string, body, out any) int {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, rd)
	require.NoError(h.t, err)
	res, err := h.c.Do(req)
	require.NoError(h.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (h *harness) errorCode(method, path string, body any) (int, string) {
	h.t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	status := h.do(method, path, body, &e)
	return status, e.Error
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	var health map[string]bool
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health", nil, &health))
	assert.True(t, health["ok"])

	h.do(http.MethodPost, "/game/new", map[string]any{}, nil)
	res, err := h.c.Get(h.ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(b), "tsf_sessions_started_total")

	status, code := h.errorCode(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", code)
}

func TestWriteErrLeavesTimeoutsToMiddleware(t *testing.T) {
	for _, err := range []error{context.DeadlineExceeded, context.Canceled} {
		rec := httptest.NewRecorder()
		writeErr(rec, fmt.Errorf("game 3: %w", err))
		assert.Zero(t, rec.Body.Len(), "no body may be written before chimw.Timeout answers")
		assert.False(t, rec.Flushed)
	}

	rec := httptest.NewRecorder()
	writeErr(rec, game.ErrMalformedClue)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHumanGame(t *testing.T) {
	h := newHarness(t)

	var created newGameRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/new", newGameReq{Secret: "1234", MaxGuesses: 3}, &created))
	assert.Equal(t, 4, created.Digits)
	assert.Equal(t, 3, created.MaxGuesses)

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "1243"}, &res))
	assert.Equal(t, "TTSS", res.Letters)
	assert.Equal(t, game.StatePlaying, res.State)
	assert.Equal(t, 1, res.Guesses)

	status, code := h.errorCode(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "1123"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "repeated_symbol", code)

	status, code = h.errorCode(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "12a4"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_symbol", code)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "1234"}, &res))
	assert.Equal(t, game.StateWon, res.State)
	assert.Equal(t, "TTTT", res.Letters)
	assert.Empty(t, res.Secret)

	status, code = h.errorCode(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "1234"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "finished", code)
}

func TestHumanGameLostRevealsSecret(t *testing.T) {
	h := newHarness(t)
	var created newGameRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/new", newGameReq{Secret: "987", MaxGuesses: 1}, &created))

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: "123"}, &res))
	assert.Equal(t, game.StateLost, res.State)
	assert.Equal(t, "FFF", res.Letters)
	assert.Equal(t, "987", res.Secret)
}

func TestHumanGameErrors(t *testing.T) {
	h := newHarness(t)
	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"too many digits", newGameReq{Digits: 11}, http.StatusBadRequest, "invalid_digit_count"},
		{"budget too large", newGameReq{MaxGuesses: 101}, http.StatusBadRequest, "invalid_guess_budget"},
		{"secret length", newGameReq{Digits: 4, Secret: "123"}, http.StatusBadRequest, "length_mismatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := h.errorCode(http.MethodPost, "/game/new", tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}

	status, code := h.errorCode(http.MethodPost, "/game/guess", guessReq{GameID: "missing", Guess: "1234"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", code)
}

// playBot answers the bot's guesses for secret until it stops asking.
func playBot(t *testing.T, h *harness, botID, first string, secret game.Code) botCluesRes {
	t.Helper()
	guess := first
	for range 50 {
		clues, err := game.Evaluate(game.Code(guess), secret)
		require.NoError(t, err)
		var res botCluesRes
		require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/clues",
			botCluesReq{BotID: botID, Clues: game.Letters(clues)}, &res))
		if res.State.Terminal() {
			assert.Empty(t, res.Next)
			return res
		}
		require.Len(t, res.Next, len(secret))
		assert.Equal(t, bot.StateAwaitingFeedback, res.State)

		var snap botSnapshotRes
		require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/bot/"+botID, nil, &snap))
		assert.Equal(t, res.State, snap.State, "clues response must report the solver's real state")
		assert.Equal(t, res.Guesses, snap.Guesses)
		assert.Equal(t, res.Next, snap.Pending)
		assert.Equal(t, guess, snap.Knowledge.LastGuess)
		guess = res.Next
	}
	t.Fatal("bot did not finish")
	return botCluesRes{}
}

func TestBotSession(t *testing.T) {
	h := newHarness(t)
	seed := uint64(42)

	var created botNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/new", botNewReq{Digits: 4, MaxGuesses: 100, Seed: &seed}, &created))
	require.NotEmpty(t, created.BotID)
	require.Len(t, created.Guess, 4)
	require.NoError(t, game.Code(created.Guess).Validate())

	res := playBot(t, h, created.BotID, created.Guess, game.Code("5913"))
	assert.Equal(t, bot.StateSolved, res.State)

	var snap botSnapshotRes
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/bot/"+created.BotID, nil, &snap))
	assert.Equal(t, bot.StateSolved, snap.State)
	assert.Equal(t, res.Guesses, snap.Guesses)
	assert.Equal(t, []string{"5", "9", "1", "3"}, snap.Knowledge.Confirmed)
	assert.Empty(t, snap.Diagnostics)

	status, code := h.errorCode(http.MethodPost, "/bot/clues", botCluesReq{BotID: created.BotID, Clues: "TTTT"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "finished", code)
}

func TestBotSessionBadClues(t *testing.T) {
	h := newHarness(t)
	var created botNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/new", botNewReq{Digits: 4}, &created))
	assert.Equal(t, game.DefaultMaxGuesses, created.MaxGuesses)

	cases := []struct {
		name  string
		req   botCluesReq
		code  string
		state int
	}{
		{"bad letter", botCluesReq{BotID: created.BotID, Clues: "TTXF"}, "malformed_clue", http.StatusBadRequest},
		{"short clues", botCluesReq{BotID: created.BotID, Clues: "TT"}, "length_mismatch", http.StatusBadRequest},
		{"bad guess", botCluesReq{BotID: created.BotID, Guess: "1111", Clues: "TTFF"}, "repeated_symbol", http.StatusBadRequest},
		{"unknown bot", botCluesReq{BotID: "missing", Clues: "TTFF"}, "not_found", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := h.errorCode(http.MethodPost, "/bot/clues", tc.req)
			assert.Equal(t, tc.state, status)
			assert.Equal(t, tc.code, code)
		})
	}

	var snap botSnapshotRes
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/bot/"+created.BotID, nil, &snap))
	assert.Zero(t, snap.Guesses, "rejected input must not advance the bot")
	assert.Equal(t, bot.StateAwaitingFeedback, snap.State)
}

func TestBotSessionExplicitGuess(t *testing.T) {
	h := newHarness(t)
	var created botNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/new", botNewReq{Digits: 3}, &created))

	var res botCluesRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/clues",
		botCluesReq{BotID: created.BotID, Guess: "012", Clues: "fff"}, &res))
	assert.Equal(t, bot.StateAwaitingFeedback, res.State)
	assert.Equal(t, 1, res.Guesses)
	for _, d := range []byte("012") {
		assert.NotContains(t, res.Next, string(d))
	}
}

func TestBotSimulate(t *testing.T) {
	h := newHarness(t)
	seed := uint64(3)
	var tr sim.Transcript
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/simulate", simulateReq{Secret: "0123", Seed: &seed}, &tr))
	assert.Equal(t, "0123", tr.Secret)
	assert.Equal(t, bot.StateSolved, tr.State)
	require.NotEmpty(t, tr.Turns)
	assert.Equal(t, "0123", tr.Turns[len(tr.Turns)-1].Guess)

	var again sim.Transcript
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/simulate", simulateReq{Secret: "0123", Seed: &seed}, &again))
	assert.Equal(t, tr, again, "a fixed seed replays the same game")

	status, code := h.errorCode(http.MethodPost, "/bot/simulate", simulateReq{Digits: 0, Secret: "01234567890"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_digit_count", code)
}

func TestBotBatch(t *testing.T) {
	h := newHarness(t)
	var sum sim.Summary
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/batch", batchReq{Digits: 3, Games: 12, Workers: 3, Seed: 9}, &sum))
	assert.Equal(t, 12, sum.Games)
	assert.Equal(t, 12, sum.Solved)
	assert.Zero(t, sum.Contradictions)

	status, code := h.errorCode(http.MethodPost, "/bot/batch", batchReq{Digits: 3, Games: 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_batch", code)
}

func TestDaily(t *testing.T) {
	h := newHarness(t)

	var started dailyNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/daily/new", nil, &started))
	require.NotEmpty(t, started.GameID)
	assert.Equal(t, daily.DateKey(testNow), started.Date)
	assert.False(t, started.Played)

	var again dailyNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/daily/new", nil, &again))
	assert.Equal(t, started.GameID, again.GameID, "the anonymous cookie keeps the same session")

	secret, err := daily.Code(testNow, "test_salt", 4)
	require.NoError(t, err)

	var res dailyGuessRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: started.GameID, Guess: secret.String()}, &res))
	assert.Equal(t, "won", res.State)
	assert.Equal(t, 1, res.Guesses)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: started.GameID, Guess: secret.String()}, &res))
	assert.Equal(t, "locked", res.State)

	var played dailyNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/daily/new", nil, &played))
	assert.True(t, played.Played)
	assert.Empty(t, played.GameID)

	var lb lbRes
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, daily.DateKey(testNow), lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)

	status, code := h.errorCode(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: "other", Guess: "0123"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "no_session", code)
}

func TestTokenUsesServerClock(t *testing.T) {
	h := newHarness(t)
	u, err := h.srv.createUser(context.Background(), "clock_user", "password1")
	require.NoError(t, err)

	earlier := time.Now().Add(-48 * time.Hour)
	h.srv.now = func() time.Time { return earlier }
	tok, exp, err := h.srv.signJWT(u.ID, u.Username)
	require.NoError(t, err)
	require.True(t, exp.Before(time.Now()), "a one-day token signed two days ago has expired on the wall clock")

	me, ok := h.srv.parseToken(context.Background(), tok)
	require.True(t, ok, "tokens are validated against the same clock that signed them")
	assert.Equal(t, u.ID, me.ID)

	h.srv.now = time.Now
	_, ok = h.srv.parseToken(context.Background(), tok)
	assert.False(t, ok)
}

func TestAuthAndStats(t *testing.T) {
	h := newHarness(t)

	status, _ := h.errorCode(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, code := h.errorCode(http.MethodPost, "/auth/signup", map[string]string{"username": "ab", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, code, "username")

	var user map[string]any
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/auth/signup", map[string]string{"username": "ada_l", "password": "password1"}, &user))
	assert.Equal(t, "ada_l", user["username"])

	status, code = h.errorCode(http.MethodPost, "/auth/signup", map[string]string{"username": "ADA_L", "password": "password1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Username taken", code)

	var me authUser
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "ada_l", me.Username)

	// One won human game and one solved bot session.
	var g newGameRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/new", newGameReq{Secret: "42"}, &g))
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/guess", guessReq{GameID: g.GameID, Guess: "42"}, nil))

	var b botNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/new", botNewReq{Digits: 2, MaxGuesses: 100}, &b))
	playBot(t, h, b.BotID, b.Guess, game.Code("71"))

	var stats struct {
		GamesPlayed, Wins, Streak, BotGames, BotWins int
	}
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/stats/me", nil, &stats))
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 1, stats.BotGames)
	assert.Equal(t, 1, stats.BotWins)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/auth/logout", nil, nil))
	status, _ = h.errorCode(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/auth/login", map[string]string{"username": "Ada_L", "password": "password1"}, nil))
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/auth/me", nil, &me))

	status, _ = h.errorCode(http.MethodPost, "/auth/login", map[string]string{"username": "ada_l", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestVersusPlayerWins(t *testing.T) {
	h := newHarness(t)
	seed := uint64(11)

	var v versus.View
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/new",
		versusNewReq{Secret: "9876", MachineSecret: "0123", Seed: &seed}, &v))
	require.NotEmpty(t, v.ID)
	assert.Equal(t, 4, v.Digits)
	assert.Equal(t, game.DefaultMaxGuesses, v.MaxGuesses)
	assert.Len(t, v.BotGuess, 4)
	assert.Empty(t, v.MachineSecret)

	var res versusTurnRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/turn", versusTurnReq{VersusID: v.ID, Guess: "0123"}, &res))
	assert.Equal(t, versus.ResultPlayerWon, res.Result)
	assert.Equal(t, "TTTT", res.Player.Clues)
	assert.Nil(t, res.Bot)
	assert.Equal(t, "0123", res.MachineSecret)

	status, code := h.errorCode(http.MethodPost, "/versus/turn", versusTurnReq{VersusID: v.ID, Guess: "0123"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "finished", code)
}

func TestVersusBotWins(t *testing.T) {
	h := newHarness(t)
	seed := uint64(12)

	var v versus.View
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/new",
		versusNewReq{Secret: "9876", MachineSecret: "0123", MaxGuesses: game.MaxGuessBudget, Seed: &seed}, &v))

	var res versusTurnRes
	for res.Result != versus.ResultBotWon {
		require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/turn", versusTurnReq{VersusID: v.ID, Guess: "4567"}, &res))
		require.NotNil(t, res.Bot)
		require.LessOrEqual(t, res.Number, 30)
		if res.Result == versus.ResultPlaying {
			assert.Empty(t, res.MachineSecret)
		}
	}
	assert.Equal(t, "9876", res.Bot.Guess)
	assert.Equal(t, "TTTT", res.Bot.Clues)
	assert.Equal(t, "0123", res.MachineSecret)

	var after versus.View
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/versus/"+v.ID, nil, &after))
	assert.Equal(t, versus.ResultBotWon, after.Result)
	assert.Len(t, after.Rounds, res.Number)
}

func TestVersusBudgetRunsOut(t *testing.T) {
	h := newHarness(t)
	seed := uint64(13)

	var first versus.View
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/new",
		versusNewReq{Secret: "4567", MachineSecret: "0123", Seed: &seed}, &first))

	// Same seed, same opening guess; its rotation is a different number.
	rotated := first.BotGuess[1:] + first.BotGuess[:1]
	var v versus.View
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/new",
		versusNewReq{Secret: rotated, MachineSecret: "0123", MaxGuesses: 1, Seed: &seed}, &v))
	require.Equal(t, first.BotGuess, v.BotGuess)

	var res versusTurnRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/versus/turn", versusTurnReq{VersusID: v.ID, Guess: "4567"}, &res))
	assert.Equal(t, versus.ResultDraw, res.Result)
	assert.Equal(t, "FFFF", res.Player.Clues)
	require.NotNil(t, res.Bot)
	assert.NotEqual(t, strings.Repeat("T", 4), res.Bot.Clues)
	assert.Equal(t, "0123", res.MachineSecret)
}

func TestVersusBadInput(t *testing.T) {
	h := newHarness(t)
	status, code := h.errorCode(http.MethodPost, "/versus/new", versusNewReq{Secret: "1121"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "repeated_symbol", code)

	status, code = h.errorCode(http.MethodPost, "/versus/turn", versusTurnReq{VersusID: "missing", Guess: "0123"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", code)
}

func TestStaleSessionsAreEvicted(t *testing.T) {
	h := newHarness(t)

	var old newGameRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/new", newGameReq{Secret: "1234"}, &old))
	var oldBot botNewRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/bot/new", botNewReq{Digits: 4}, &oldBot))

	h.srv.now = func() time.Time { return testNow.Add(sessionTTL + time.Hour) }
	var fresh newGameRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/new", newGameReq{Secret: "1234"}, &fresh))

	status, _ := h.errorCode(http.MethodPost, "/game/guess", guessReq{GameID: old.GameID, Guess: "1234"})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.errorCode(http.MethodGet, "/bot/"+oldBot.BotID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/game/guess", guessReq{GameID: fresh.GameID, Guess: "1234"}, &res))
	assert.Equal(t, game.StateWon, res.State)
}
