package matching

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// newRNG returns a PCG-backed generator for the given seed and stream.
// Distinct streams derived from one seed stay independent and reproducible,
// which is how per-group generators are built without sharing a mutable RNG
// across workers.
func newRNG(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// drawSeed produces a fresh OS-entropy seed for unseeded runs. The caller
// logs it so the run can be reproduced afterwards.
func drawSeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms; fall back to a
		// non-cryptographic source rather than aborting an analysis run.
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// partialShuffle performs a partial Fisher-Yates shuffle: after the call the
// first k elements of s are a uniform random sample of s, in random order.
// The remainder of s is unspecified.
func partialShuffle(rng *rand.Rand, s []int, k int) {
	n := len(s)
	if k > n {
		k = n
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		s[i], s[j] = s[j], s[i]
	}
}
