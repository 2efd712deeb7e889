// Package metrics holds the Prometheus collectors for the game server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsf",
		Name:      "sessions_started_total",
		Help:      "Sessions started, by mode (human, bot, daily, simulate).",
	}, []string{"mode"})

	Guesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsf",
		Name:      "guesses_total",
		Help:      "Guesses scored, by who made them (human, bot).",
	}, []string{"player"})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsf",
		Name:      "outcomes_total",
		Help:      "Finished sessions, by player and result.",
	}, []string{"player", "result"})

	GuessesToSolve = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tsf",
		Name:      "guesses_to_solve",
		Help:      "Guesses needed to solve a code, by code length.",
		Buckets:   prometheus.LinearBuckets(1, 1, 15),
	}, []string{"digits"})

	Contradictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tsf",
		Name:      "solver_contradictions_total",
		Help:      "Guesses the solver built with its last-resort fallback.",
	})
)

// SolverFinished records a bot session that reached a terminal state.
func SolverFinished(digits int, result string, guesses, contradictions int) {
	Outcomes.WithLabelValues("bot", result).Inc()
	if result == "solved" {
		GuessesToSolve.WithLabelValues(strconv.Itoa(digits)).Observe(float64(guesses))
	}
	Contradictions.Add(float64(contradictions))
}
