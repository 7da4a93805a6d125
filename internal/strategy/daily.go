package strategy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/weaver/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Daily draws pairs from a generator seeded with HMAC(salt, date).
// Everyone sharing a salt sees the same sequence of pairs on a given day;
// the sequence restarts when the date changes.
type Daily struct {
	salt string
	now  func() time.Time
	date string
	rng  *rand.Rand
}

// NewDaily uses now (or time.Now when nil) to pick the date.
func NewDaily(salt string, now func() time.Time) *Daily {
	if now == nil {
		now = time.Now
	}
	return &Daily{salt: salt, now: now}
}

// Generate returns the next pair in today's sequence.
func (d *Daily) Generate(dict *words.Dictionary) (string, string, error) {
	if key := DateKey(d.now()); key != d.date || d.rng == nil {
		d.date = key
		d.rng = rand.New(rand.NewPCG(seedFor(d.salt, key)))
	}
	return (&Random{rng: d.rng}).Generate(dict)
}

// Path is always nil; Daily is wrapped in WithPath by New.
func (d *Daily) Path() []string { return nil }

// Date is the UTC date the current sequence belongs to.
func (d *Daily) Date() string { return d.date }

// seedFor derives two PCG seed words from HMAC-SHA256(salt, date).
func seedFor(salt, date string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}
