package bot

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tsf/internal/game"
)

func mustClues(t *testing.T, s string) []game.Clue {
	t.Helper()
	c, err := game.ParseClues(s, len(s))
	require.NoError(t, err)
	return c
}

func newKnowledge(t *testing.T, n int) *Knowledge {
	t.Helper()
	k, err := NewKnowledge(n)
	require.NoError(t, err)
	return k
}

// checkInvariants asserts the structural invariants of a Knowledge.
func checkInvariants(t *testing.T, k *Knowledge) {
	t.Helper()
	seen := digitSet(0)
	for i, c := range k.candidates {
		assert.Zero(t, c&k.eliminated, "candidates[%d] overlaps eliminated", i)
		if d := k.confirmed[i]; d != 0 {
			assert.Equal(t, bit(d), c, "confirmed[%d] is not the sole candidate", i)
			assert.False(t, seen.has(d), "digit %c confirmed twice", d)
			seen.add(d)
		}
	}
	assert.Zero(t, k.misplaced&seen, "misplaced overlaps confirmed")
	assert.Zero(t, k.misplaced&k.eliminated, "misplaced overlaps eliminated")
	assert.Zero(t, seen&k.eliminated, "confirmed overlaps eliminated")
}

func TestNewKnowledge(t *testing.T) {
	k := newKnowledge(t, 3)
	snap := k.Snapshot()
	assert.Equal(t, 3, snap.Digits)
	for _, c := range snap.Candidates {
		assert.Len(t, c, 10)
	}
	assert.Equal(t, []string{"", "", ""}, snap.Confirmed)
	assert.Empty(t, snap.Misplaced)
	assert.Empty(t, snap.Eliminated)

	_, err := NewKnowledge(0)
	assert.ErrorIs(t, err, game.ErrInvalidDigitCount)
	_, err = NewKnowledge(11)
	assert.ErrorIs(t, err, game.ErrInvalidDigitCount)
}

func TestApplyAllPresent(t *testing.T) {
	k := newKnowledge(t, 4)
	require.NoError(t, k.Apply(game.Code("4321"), mustClues(t, "SSSS")))

	snap := k.Snapshot()
	assert.Equal(t, []string{"1", "2", "3", "4"}, snap.Misplaced)
	assert.Empty(t, snap.Eliminated)
	assert.Equal(t, []string{"", "", "", ""}, snap.Confirmed)
	assert.NotContains(t, snap.Candidates[0], "4")
	assert.NotContains(t, snap.Candidates[1], "3")
	assert.NotContains(t, snap.Candidates[2], "2")
	assert.NotContains(t, snap.Candidates[3], "1")
	checkInvariants(t, k)
}

func TestApplyHitsThenClosure(t *testing.T) {
	k := newKnowledge(t, 4)
	require.NoError(t, k.Apply(game.Code("4321"), mustClues(t, "SSSS")))
	require.NoError(t, k.Apply(game.Code("1243"), mustClues(t, "TTSS")))

	snap := k.Snapshot()
	assert.Equal(t, "1", snap.Confirmed[0])
	assert.Equal(t, "2", snap.Confirmed[1])
	for _, i := range []int{2, 3} {
		assert.NotContains(t, snap.Candidates[i], "1")
		assert.NotContains(t, snap.Candidates[i], "2")
	}
	assert.Subset(t, snap.KnownPresent(), []string{"3", "4"})

	// 3 was ruled out of position 3 and 4 out of position 2, so the closure
	// places both.
	assert.Equal(t, []string{"1", "2", "3", "4"}, snap.Confirmed)
	assert.Empty(t, snap.Misplaced)
	assert.True(t, k.Solved())
	checkInvariants(t, k)
}

func TestApplyAbsentPurgesEverywhere(t *testing.T) {
	k := newKnowledge(t, 3)
	require.NoError(t, k.Apply(game.Code("789"), mustClues(t, "FFS")))

	snap := k.Snapshot()
	assert.Equal(t, []string{"7", "8"}, snap.Eliminated)
	assert.Equal(t, []string{"9"}, snap.Misplaced)
	for i, c := range snap.Candidates {
		assert.NotContains(t, c, "7", "position %d", i)
		assert.NotContains(t, c, "8", "position %d", i)
	}
	assert.NotContains(t, snap.Candidates[2], "9")
	assert.Contains(t, snap.Candidates[0], "9")
	checkInvariants(t, k)
}

func TestApplyRejectsBadInputWithoutMutation(t *testing.T) {
	k := newKnowledge(t, 4)
	require.NoError(t, k.Apply(game.Code("0123"), mustClues(t, "FSFT")))
	before := k.Snapshot()

	tests := []struct {
		name  string
		guess game.Code
		clues []game.Clue
		want  error
	}{
		{"short guess", game.Code("012"), mustClues(t, "FFFF"), game.ErrLengthMismatch},
		{"short clues", game.Code("4567"), mustClues(t, "FFF"), game.ErrLengthMismatch},
		{"unknown clue", game.Code("4567"), []game.Clue{game.ClueHit, "maybe", game.ClueAbsent, game.ClueAbsent}, game.ErrMalformedClue},
		{"non digit", game.Code("45x7"), mustClues(t, "FFFF"), game.ErrInvalidSymbol},
		{"repeat", game.Code("4557"), mustClues(t, "FFFF"), game.ErrRepeatedSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.Apply(tt.guess, tt.clues)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, k.Snapshot())
		})
	}
}

func TestClosureChainsDeductions(t *testing.T) {
	k := newKnowledge(t, 3)
	// 5 is present but not at 0; 6 is present but not at 1.
	require.NoError(t, k.Apply(game.Code("560"), mustClues(t, "SST")))
	// Position 2 is 0, so 5 must be at 1 and 6 at 0.
	snap := k.Snapshot()
	assert.Equal(t, []string{"6", "5", "0"}, snap.Confirmed)
	assert.Empty(t, snap.Misplaced)
	checkInvariants(t, k)
}

func TestClosurePlacesAtMostNDigits(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for n := 1; n <= game.MaxDigits; n++ {
		for range 30 {
			k := newKnowledge(t, n)
			secret, _ := game.GenerateSecret(n, r)
			for range 6 {
				guess, _ := game.GenerateSecret(n, r)
				clues, _ := game.Evaluate(guess, secret)
				for i, d := range guess {
					switch clues[i] {
					case game.ClueHit:
						k.confirm(i, d)
					case game.CluePresent:
						k.present(i, d)
					case game.ClueAbsent:
						k.absent(d)
					}
				}
				assert.LessOrEqual(t, k.closure(), n)
				assert.Zero(t, k.closure(), "closure must be at a fixed point")
				checkInvariants(t, k)
			}
		}
	}
}

func TestKnowledgeIsMonotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	for n := 1; n <= game.MaxDigits; n++ {
		for range 20 {
			k := newKnowledge(t, n)
			secret, _ := game.GenerateSecret(n, r)
			prevElim := k.eliminated
			prevKnown := k.misplaced | k.confirmedSet()
			for range 8 {
				guess, _ := game.GenerateSecret(n, r)
				clues, _ := game.Evaluate(guess, secret)
				require.NoError(t, k.Apply(guess, clues))

				assert.Equal(t, prevElim, k.eliminated&prevElim, "an eliminated digit came back")
				known := k.misplaced | k.confirmedSet()
				assert.Equal(t, prevKnown, known&prevKnown, "a present digit was forgotten")
				for i, c := range k.candidates {
					assert.Zero(t, c&k.eliminated, "position %d", i)
				}
				// Knowledge never contradicts the secret.
				for i, d := range secret {
					assert.True(t, k.candidates[i].has(d), "secret digit %c dropped from position %d", d, i)
				}
				prevElim, prevKnown = k.eliminated, known
			}
		}
	}
}
