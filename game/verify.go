package game

import "fmt"

// VerifyCrashPoint recomputes the crash point of a game from its server seed
// and game ID. Given the same inputs it always returns the same point.
func VerifyCrashPoint(serverSeed, gameID string, houseEdge float64) float64 {
	combined := serverSeed + "-" + gameID
	rng := NewSeededRNG(combined)
	return SampleCrashPoint(rng, houseEdge)
}

// ReplaySession re-runs a single session of a seeded batch. simulation is
// the 1-based index reported in SessionResult.Simulation; the result is
// identical to the one RunBatch produced with WithSeed(seed).
func ReplaySession(seed string, simulation int, params GameParameters, strategy Strategy, numRounds int) (SessionResult, error) {
	if seed == "" {
		return SessionResult{}, fmt.Errorf("%w: replay needs the run seed", ErrInvalidParameter)
	}
	if simulation < 1 {
		return SessionResult{}, fmt.Errorf("%w: simulation index must be >= 1, got %d", ErrInvalidParameter, simulation)
	}

	res, err := RunSession(NewStreamRNG(seed, simulation-1), params, strategy, numRounds)
	if err != nil {
		return SessionResult{}, err
	}
	res.Simulation = simulation
	return res, nil
}
