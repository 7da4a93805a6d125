package strategy

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/robalobadob/weaver/internal/words"
)

// Random draws two distinct dictionary words.
type Random struct {
	rng *rand.Rand
}

// NewRandom uses rng, or a generator seeded from crypto/rand when rng is nil.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = NewSeededRand()
	}
	return &Random{rng: rng}
}

// Generate picks a start index, then resamples the target index until it differs.
func (r *Random) Generate(dict *words.Dictionary) (string, string, error) {
	n := dict.Len()
	if n < words.MinWords {
		return "", "", fmt.Errorf("%w: insufficient valid words (%d)", ErrWordGeneration, n)
	}
	i := r.rng.IntN(n)
	j := r.rng.IntN(n)
	for j == i {
		j = r.rng.IntN(n)
	}
	return dict.At(i), dict.At(j), nil
}

// Path is always nil.
func (r *Random) Path() []string { return nil }

// NewSeededRand returns a PCG generator seeded from crypto/rand.
func NewSeededRand() *rand.Rand {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}
