package daily

import (
	"sort"
	"sync"
)

// Result is one player's finished daily game.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
	Won       bool   `json:"won"`
}

// LBRow is a leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Board keeps daily results for the lifetime of the process.
// One result per player per date; later inserts are ignored.
type Board struct {
	mu      sync.Mutex
	results map[string]map[string]Result // date -> player -> result
}

func NewBoard() *Board {
	return &Board{results: make(map[string]map[string]Result)}
}

func (b *Board) AlreadyPlayed(playerID, date string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.results[date][playerID]
	return ok
}

// Insert records r unless the player already has a result for r.Date.
func (b *Board) Insert(r Result) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	day, ok := b.results[r.Date]
	if !ok {
		day = make(map[string]Result)
		b.results[r.Date] = day
	}
	if _, dup := day[r.PlayerID]; dup {
		return false
	}
	day[r.PlayerID] = r
	return true
}

// Leaderboard returns the winners for date ordered by guesses, then time.
// limit <= 0 means 20.
func (b *Board) Leaderboard(date string, limit int) []LBRow {
	if limit <= 0 {
		limit = 20
	}
	b.mu.Lock()
	out := make([]LBRow, 0, len(b.results[date]))
	for _, r := range b.results[date] {
		if r.Won {
			out = append(out, LBRow{PlayerID: r.PlayerID, Guesses: r.Guesses, ElapsedMs: r.ElapsedMs})
		}
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Guesses != out[j].Guesses {
			return out[i].Guesses < out[j].Guesses
		}
		if out[i].ElapsedMs != out[j].ElapsedMs {
			return out[i].ElapsedMs < out[j].ElapsedMs
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
