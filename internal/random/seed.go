// Package random provides seed and generator helpers for the encounter
// scheduler's pseudo-random draws.
//
// Seeds come from crypto/rand so two campaigns never share a stream, while
// the generators themselves are deterministic math/rand sources so a saved
// seed can reproduce a full campaign in tests.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
