// Package bot implements the autonomous TSF player: a knowledge base about
// the hidden code, the constraint propagation that folds each round's clues
// into it, a guess generator with an ordered fallback cascade, and the
// Solver state machine that ties them together.
package bot

import (
	"math/bits"

	"github.com/robalobadob/tsf/internal/game"
)

// digitSet is a bitset over the alphabet; bit d stands for digit '0'+d.
type digitSet uint16

const fullSet digitSet = 1<<game.MaxDigits - 1

func bit(d byte) digitSet { return 1 << (d - '0') }

func (s digitSet) has(d byte) bool { return s&bit(d) != 0 }
func (s *digitSet) add(d byte) { *s |= bit(d) }
func (s *digitSet) remove(d byte) { *s &^= bit(d) }
func (s digitSet) len() int { return bits.OnesCount16(uint16(s)) }

// digits lists members in ascending order.
func (s digitSet) digits() []byte {
	out := make([]byte, 0, s.len())
	for d := byte('0'); d <= '9'; d++ {
		if s.has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s digitSet) strings() []string {
	ds := s.digits()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d)
	}
	return out
}

// Knowledge is the solver's belief state about one secret of fixed length.
//
// Apply is its only mutator. lastGuess is the most recently applied guess.
//
// Invariants, maintained by Apply:
//   - candidates[i] never intersects eliminated.
//   - if confirmed[i] is set, candidates[i] == {confirmed[i]}.
//   - a digit is confirmed at most once.
//   - misplaced is disjoint from confirmed digits and from eliminated.
type Knowledge struct {
	n          int
	candidates []digitSet
	confirmed  []byte // 0 = unknown
	misplaced  digitSet
	eliminated digitSet
	lastGuess  game.Code
}

// NewKnowledge returns a blank state for codes of n digits.
func NewKnowledge(n int) (*Knowledge, error) {
	if err := game.CheckDigits(n); err != nil {
		return nil, err
	}
	k := &Knowledge{
		n:          n,
		candidates: make([]digitSet, n),
		confirmed:  make([]byte, n),
	}
	for i := range k.candidates {
		k.candidates[i] = fullSet
	}
	return k, nil
}

// Digits is the code length this state is bound to.
func (k *Knowledge) Digits() int { return k.n }

// confirmedSet collects every confirmed digit.
func (k *Knowledge) confirmedSet() digitSet {
	var s digitSet
	for _, d := range k.confirmed {
		if d != 0 {
			s.add(d)
		}
	}
	return s
}

// Solved reports whether every position is confirmed.
func (k *Knowledge) Solved() bool {
	for _, d := range k.confirmed {
		if d == 0 {
			return false
		}
	}
	return true
}

// Snapshot is a read-only view of a Knowledge, shaped for debugging
// output and tests.
type Snapshot struct {
	Digits     int        `json:"digits"`
	Candidates [][]string `json:"candidates"`
	Confirmed  []string   `json:"confirmed"` // "" where unknown
	Misplaced  []string   `json:"misplaced"`
	Eliminated []string   `json:"eliminated"`
	LastGuess  string     `json:"lastGuess"`
}

// Snapshot copies the current state.
func (k *Knowledge) Snapshot() Snapshot {
	s := Snapshot{
		Digits:     k.n,
		Candidates: make([][]string, k.n),
		Confirmed:  make([]string, k.n),
		Misplaced:  k.misplaced.strings(),
		Eliminated: k.eliminated.strings(),
		LastGuess:  k.lastGuess.String(),
	}
	for i := 0; i < k.n; i++ {
		s.Candidates[i] = k.candidates[i].strings()
		if d := k.confirmed[i]; d != 0 {
			s.Confirmed[i] = string(d)
		}
	}
	return s
}

// KnownPresent lists digits known to be in the secret, placed or not.
func (s Snapshot) KnownPresent() []string {
	var set digitSet
	for _, d := range s.Misplaced {
		set.add(d[0])
	}
	for _, d := range s.Confirmed {
		if d != "" {
			set.add(d[0])
		}
	}
	return set.strings()
}
