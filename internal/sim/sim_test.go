package sim

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/tsf/internal/bot"
	"github.com/robalobadob/tsf/internal/game"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPlaySolves(t *testing.T) {
	s, err := bot.New(4, bot.WithRand(rand.New(rand.NewPCG(1, 1))))
	require.NoError(t, err)

	tr, err := Play(context.Background(), s, game.Code("1234"))
	require.NoError(t, err)
	assert.Equal(t, bot.StateSolved, tr.State)
	assert.Equal(t, "1234", tr.Secret)
	require.NotEmpty(t, tr.Turns)
	assert.Len(t, tr.Turns, tr.Guesses)
	last := tr.Turns[len(tr.Turns)-1]
	assert.Equal(t, "1234", last.Guess)
	assert.Equal(t, "TTTT", last.Clues)
	assert.Empty(t, tr.Diagnostics)
}

func TestPlayBudget(t *testing.T) {
	s, err := bot.New(10, bot.WithRand(rand.New(rand.NewPCG(2, 2))), bot.WithBudget(1))
	require.NoError(t, err)

	tr, err := Play(context.Background(), s, game.Code("9876543210"))
	require.NoError(t, err)
	assert.Len(t, tr.Turns, 1)
	if tr.Turns[0].Guess != "9876543210" {
		assert.Equal(t, bot.StateExhausted, tr.State)
	}
}

func TestPlayLengthMismatch(t *testing.T) {
	s, err := bot.New(4)
	require.NoError(t, err)
	_, err = Play(context.Background(), s, game.Code("123"))
	assert.ErrorIs(t, err, game.ErrLengthMismatch)
}

func TestPlayCancelled(t *testing.T) {
	s, err := bot.New(4)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Play(ctx, s, game.Code("1234"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatch(t *testing.T) {
	cfg := BatchConfig{Digits: 5, Games: 40, Workers: 8, Seed: 7}
	sum, err := Batch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 40, sum.Games)
	assert.Equal(t, 40, sum.Solved)
	assert.Zero(t, sum.Exhausted)
	assert.Zero(t, sum.Contradictions)
	assert.Greater(t, sum.MeanGuesses, 1.0)
	assert.GreaterOrEqual(t, float64(sum.MostGuesses), sum.MeanGuesses)

	again, err := Batch(context.Background(), BatchConfig{Digits: 5, Games: 40, Workers: 1, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, sum, again, "batch results must not depend on scheduling")
}

func TestBatchInvalidDigits(t *testing.T) {
	_, err := Batch(context.Background(), BatchConfig{Digits: 0, Games: 1})
	assert.ErrorIs(t, err, game.ErrInvalidDigitCount)
}
