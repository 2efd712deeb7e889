package bot

import (
	"fmt"

	"github.com/robalobadob/tsf/internal/game"
)

// Apply folds one observation into the knowledge base, then runs the
// placement closure until no further deduction is possible.
//
// guess must be a valid code and clues must hold exactly one valid clue per
// position; otherwise the state is left untouched.
func (k *Knowledge) Apply(guess game.Code, clues []game.Clue) error {
	if len(guess) != k.n {
		return fmt.Errorf("guess has %d digits, want %d: %w", len(guess), k.n, game.ErrLengthMismatch)
	}
	if err := guess.Validate(); err != nil {
		return err
	}
	if err := game.CheckClues(clues, k.n); err != nil {
		return err
	}

	k.lastGuess = guess.Clone()
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
	k.closure()
	return nil
}

// confirm pins d at position i and purges it everywhere else.
func (k *Knowledge) confirm(i int, d byte) {
	k.confirmed[i] = d
	k.candidates[i] = bit(d)
	k.misplaced.remove(d)
	k.eliminated.remove(d)
	for j := range k.candidates {
		if j == i {
			continue
		}
		k.candidates[j].remove(d)
		// A contradicting earlier hit for the same digit cannot stand.
		if k.confirmed[j] == d {
			k.confirmed[j] = 0
		}
	}
}

// present records that d is in the secret but not at position i.
func (k *Knowledge) present(i int, d byte) {
	k.candidates[i].remove(d)
	if k.confirmed[i] == d {
		k.confirmed[i] = 0
	}
	k.eliminated.remove(d)
	if !k.confirmedSet().has(d) {
		k.misplaced.add(d)
	}
}

// absent records that d is nowhere in the secret.
func (k *Knowledge) absent(d byte) {
	k.eliminated.add(d)
	k.misplaced.remove(d)
	for j := range k.candidates {
		k.candidates[j].remove(d)
		if k.confirmed[j] == d {
			k.confirmed[j] = 0
		}
	}
}

// closure confirms any misplaced digit that has exactly one open position
// left, restarting the scan after each placement. Every placement closes a
// position, so it places at most n digits. It returns the placements made.
func (k *Knowledge) closure() int {
	placed := 0
	for {
		progress := false
		for _, d := range k.misplaced.digits() {
			if pos, ok := k.onlyPlaceFor(d); ok {
				k.confirm(pos, d)
				placed++
				progress = true
				break
			}
		}
		if !progress {
			return placed
		}
	}
}

// onlyPlaceFor returns the single unconfirmed position still admitting d.
func (k *Knowledge) onlyPlaceFor(d byte) (int, bool) {
	pos, count := -1, 0
	for i, c := range k.candidates {
		if k.confirmed[i] != 0 || !c.has(d) {
			continue
		}
		pos = i
		count++
		if count > 1 {
			return -1, false
		}
	}
	return pos, count == 1
}
