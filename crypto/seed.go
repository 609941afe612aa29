package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// seedReader supplies the entropy of generated seeds.
var seedReader io.Reader = rand.Reader

// GenerateRunSeed returns a fresh random run seed and its public commitment.
// Publishing the commitment before results lets anyone check later that a
// batch was produced from the seed revealed with it.
func GenerateRunSeed() (seed string, commitment string, err error) {
	bytes := make([]byte, 32)
	if _, err := io.ReadFull(seedReader, bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate run seed: %w", err)
	}

	seed = hex.EncodeToString(bytes)
	commitment = Commit(seed)

	return seed, commitment, nil
}

// Commit returns the hex keccak256 commitment of a seed.
func Commit(seed string) string {
	return hex.EncodeToString(ethcrypto.Keccak256([]byte(seed)))
}

func VerifySeed(seed, commitment string) bool {
	return Commit(seed) == commitment
}

// SeedInt64 maps an arbitrary string seed onto a 64-bit PRNG seed.
func SeedInt64(seed string) int64 {
	h := ethcrypto.Keccak256([]byte(seed))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// StreamSeed derives the PRNG seed of one independent stream of a run.
// Streams with different indexes of the same run seed are uncorrelated, and
// the same (seed, stream) pair always yields the same value.
func StreamSeed(seed string, stream int) int64 {
	return SeedInt64(seed + "-" + strconv.Itoa(stream))
}
