package bot

import (
	"math/rand/v2"

	"github.com/robalobadob/tsf/internal/game"
)

// Rule names one step of the fallback cascade, strongest first.
type Rule int

const (
	RuleConfirmed    Rule = iota + 1 // the position's confirmed digit
	RuleMisplaced                    // a known-present digit still possible here
	RuleCandidate                    // any remaining candidate for the position
	RuleUneliminated                 // any digit not known absent
	RuleAnyUnused                    // any digit not yet in the guess
)

func (r Rule) String() string {
	switch r {
	case RuleConfirmed:
		return "confirmed"
	case RuleMisplaced:
		return "misplaced"
	case RuleCandidate:
		return "candidate"
	case RuleUneliminated:
		return "uneliminated"
	case RuleAnyUnused:
		return "any-unused"
	}
	return "unknown"
}

// Guess is a generated code plus the rule that filled each position.
type Guess struct {
	Code  game.Code
	Rules []Rule
}

// Contradictory lists the positions that needed the last-resort rule.
// A non-empty result means propagation or its input went wrong upstream.
func (g Guess) Contradictory() []int {
	var out []int
	for i, r := range g.Rules {
		if r == RuleAnyUnused {
			out = append(out, i)
		}
	}
	return out
}

// draft is a guess under construction. A zero byte marks an open position.
type draft struct {
	code  game.Code
	rules []Rule
	used  digitSet
}

func (d *draft) place(i int, digit byte, r Rule) {
	d.code[i] = digit
	d.rules[i] = r
	d.used.add(digit)
}

func (d *draft) open() []int {
	var out []int
	for i, c := range d.code {
		if c == 0 {
			out = append(out, i)
		}
	}
	return out
}

// pool returns the digits a rule allows at position i; empty means the
// rule has no candidate there.
type pool func(k *Knowledge, d *draft, i int) digitSet

type strategy struct {
	rule    Rule
	pool    pool
	shuffle bool // visit open positions in random order
}

// cascade is the ordered fallback policy. Each rule runs over every still
// open position before the next, weaker rule is tried.
var cascade = []strategy{
	{rule: RuleConfirmed, pool: func(k *Knowledge, d *draft, i int) digitSet {
		if c := k.confirmed[i]; c != 0 && !d.used.has(c) {
			return bit(c)
		}
		return 0
	}},
	{rule: RuleMisplaced, shuffle: true, pool: func(k *Knowledge, d *draft, i int) digitSet {
		return k.misplaced & k.candidates[i] &^ d.used
	}},
	{rule: RuleCandidate, pool: func(k *Knowledge, d *draft, i int) digitSet {
		return k.candidates[i] &^ d.used &^ k.eliminated
	}},
	{rule: RuleUneliminated, pool: func(k *Knowledge, d *draft, _ int) digitSet {
		return fullSet &^ d.used &^ k.eliminated
	}},
	{rule: RuleAnyUnused, pool: func(_ *Knowledge, d *draft, _ int) digitSet {
		return fullSet &^ d.used
	}},
}

// Generator produces guesses from a Knowledge. Tie-breaks among equally
// good digits (and positions) come from its random source.
type Generator struct {
	r *rand.Rand
}

// NewGenerator returns a generator drawing from r; nil seeds a fresh source.
func NewGenerator(r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{r: r}
}

// Next builds one guess of k.Digits() distinct digits without modifying k.
// It never fails:
// when knowledge is exhausted or contradictory the cascade widens until
// RuleAnyUnused, which always has a digit left because a code has at most
// ten positions.
func (g *Generator) Next(k *Knowledge) Guess {
	d := &draft{
		code:  make(game.Code, k.n),
		rules: make([]Rule, k.n),
	}
	for _, s := range cascade {
		open := d.open()
		if len(open) == 0 {
			break
		}
		if s.shuffle {
			g.r.Shuffle(len(open), func(a, b int) { open[a], open[b] = open[b], open[a] })
		}
		for _, i := range open {
			if digit, ok := g.pick(s.pool(k, d, i)); ok {
				d.place(i, digit, s.rule)
			}
		}
	}
	return Guess{Code: d.code, Rules: d.rules}
}

// pick draws a uniformly random member of s.
func (g *Generator) pick(s digitSet) (byte, bool) {
	n := s.len()
	if n == 0 {
		return 0, false
	}
	return s.digits()[g.r.IntN(n)], true
}
