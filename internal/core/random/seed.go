// Package random provides seed generation for simulated games.
//
// Seeds come from crypto/rand so unattended simulations do not repeat, while
// the seed itself is stored alongside the game so every roll can be replayed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	return seedFrom(crand.Reader)
}

// SeedOrNew returns configured when it is non-zero, otherwise a fresh seed.
func SeedOrNew(configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	return NewSeed()
}

func seedFrom(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
