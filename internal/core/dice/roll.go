// Package dice provides the injectable roll sources used by the engine.
package dice

import (
	"fmt"
	"math/rand"
)

// D20 is the die every contested roll and chart lookup uses.
const D20 = 20

// Roller produces a single die result in [1, sides].
//
// # Determinism
//
// Implementations must be deterministic for a given construction: a Seeded
// roller built from the same seed, or a Sequence built from the same values,
// yields the same results in the same order. The engine consumes rolls in a
// fixed order per resolution call, so replaying the recorded rolls reproduces
// the exact same state transition.
type Roller interface {
	Roll(sides int) int
}

// Seeded rolls dice from a seeded math/rand source.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a roller seeded with seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Roll rolls one die with the provided number of sides.
func (s *Seeded) Roll(sides int) int {
	return rollDie(s.rng, sides)
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	if sides <= 0 {
		panic(fmt.Sprintf("dice: invalid die with %d sides", sides))
	}
	return rng.Intn(sides) + 1
}
