// Package daily derives the shared "code of the day" and keeps the day's
// results in memory.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/tsf/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Code returns the deterministic secret for a date: the first bytes of
// HMAC(salt, YYYY-MM-DD) seed the shuffle that draws the digits, so every
// player gets the same code on the same day and nobody can predict it
// without the salt.
func Code(date time.Time, salt string, digits int) (game.Code, error) {
	if err := game.CheckDigits(digits); err != nil {
		return nil, err
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	r := rand.New(rand.NewPCG(binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])))
	return game.GenerateSecret(digits, r)
}
