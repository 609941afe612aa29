package game

import (
	"math/rand"

	"crashsim/crypto"
)

func NewSeededRNG(seed string) *rand.Rand {
	return rand.New(rand.NewSource(crypto.SeedInt64(seed)))
}

// NewStreamRNG returns the generator of one independent stream of a run.
// A batch gives each simulation index its own stream.
func NewStreamRNG(seed string, stream int) *rand.Rand {
	return rand.New(rand.NewSource(crypto.StreamSeed(seed, stream)))
}
