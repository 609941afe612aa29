package game

import (
	"context"
	"fmt"
	"math"
)

// ExpectedValue of a single bet cashed out at multiplier.
func ExpectedValue(bet, multiplier, successProb float64) float64 {
	return successProb*bet*(multiplier-1) - (1-successProb)*bet
}

// KellyFraction is the bankroll fraction maximising log growth:
//
//	f* = (p*b - q) / b,  b = net odds (multiplier - 1), q = 1 - p
//
// capped to [0, 1]. No edge (b <= 0 or p <= 0) means no bet.
func KellyFraction(successProb, winMultiplier float64) float64 {
	b := winMultiplier
	p := successProb
	q := 1 - p

	if !(b > 0) || !(p > 0) {
		return 0
	}

	kelly := (p*b - q) / b
	return math.Max(0, math.Min(kelly, 1))
}

// KellyStake is the stake for betting pct percent of full Kelly.
func KellyStake(bankroll, successProb, winMultiplier, pct float64) float64 {
	return math.Max(0, pct/100*KellyFraction(successProb, winMultiplier)*bankroll)
}

// RiskOfRuin estimates, in percent, how often a flat-betting player loses
// the whole bankroll within numRounds rounds.
func RiskOfRuin(ctx context.Context, params GameParameters, numRounds, numSimulations int, opts ...BatchOption) (float64, error) {
	if numSimulations <= 0 {
		return 0, fmt.Errorf("%w: num simulations must be positive, got %d", ErrInvalidParameter, numSimulations)
	}
	if err := validateRun(params, FixedCashout, numRounds); err != nil {
		return 0, err
	}

	cfg, err := newBatchConfig(opts)
	if err != nil {
		return 0, err
	}
	ruined := make([]bool, numSimulations)

	task := func(i int) {
		ruined[i] = ruinSession(NewStreamRNG(cfg.seed, i), params, numRounds)
	}
	if err := runPool(ctx, numSimulations, cfg.workers, task, nil); err != nil {
		return 0, err
	}

	ruins := 0
	for _, r := range ruined {
		if r {
			ruins++
		}
	}
	return float64(ruins) / float64(numSimulations) * 100, nil
}

func ruinSession(rng RandSource, params GameParameters, numRounds int) bool {
	bankroll := params.InitialBankroll

	for round := 0; round < numRounds; round++ {
		if bankroll <= 0 {
			break
		}
		bet := NextBet(FixedCashout, params.BetAmount, bankroll, 0, round)
		bankroll = SimulateRound(rng, bet, params.TargetMultiplier, params.HouseEdge, bankroll).Bankroll
	}
	return bankroll <= 0
}
