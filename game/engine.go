package game

import "math"

const (
	MinCrashPoint = 1.0
	MaxCrashPoint = 1000000.0
)

// SampleCrashPoint draws the multiplier at which a round crashes, from the
// same Pareto model as CrashProbability: P(point >= m) = m^(-k).
// Points are floored to two decimals, so P(point < m) = CrashProbability(m)
// holds exactly for every m on the 0.01 grid.
func SampleCrashPoint(rng RandSource, houseEdge float64) float64 {
	k := paretoShape(houseEdge)

	// 1-u is in (0, 1], so the power is finite
	u := 1 - rng.Float64()
	point := math.Pow(u, -1/k)

	point = math.Floor(point*100) / 100

	if point < MinCrashPoint {
		return MinCrashPoint
	}
	if point > MaxCrashPoint {
		return MaxCrashPoint
	}
	return point
}

// PlayCrashPoint settles a bet against an already drawn crash point: the
// cash-out succeeds when the crash point reaches the target. Like
// SimulateRound, only a bet above the bankroll skips the round.
func PlayCrashPoint(bet, multiplier, crashPoint, bankroll float64) RoundOutcome {
	if bankroll < bet {
		return RoundOutcome{Bankroll: bankroll}
	}
	if crashPoint >= multiplier {
		return RoundOutcome{Bankroll: bankroll + bet*(multiplier-1), Won: true}
	}
	return RoundOutcome{Bankroll: bankroll - bet}
}

// ReplayCrashPoints runs a session over a recorded sequence of crash points,
// one round per point, instead of drawing outcomes at random.
func ReplayCrashPoints(points []float64, params GameParameters, strategy Strategy) (SessionResult, error) {
	if err := validateRun(params, strategy, len(points)); err != nil {
		return SessionResult{}, err
	}

	t := newSessionTracker(params.InitialBankroll)

	for round, point := range points {
		bet := NextBet(strategy, params.BetAmount, t.bankroll, t.wins, round)
		t.record(PlayCrashPoint(bet, params.TargetMultiplier, point, t.bankroll))
	}

	res := t.result(len(points))
	res.Simulation = 1
	return res, nil
}
