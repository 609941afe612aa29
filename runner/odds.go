package runner

import "crashsim/game"

// Odds are the closed-form figures for one bet at one target.
type Odds struct {
	HouseEdge          float64 `json:"houseEdge"`
	Multiplier         float64 `json:"multiplier"`
	CrashProbability   float64 `json:"crashProbability"`
	SuccessProbability float64 `json:"successProbability"`
	OneIn              int64   `json:"oneIn"`
	ExpectedValue      float64 `json:"expectedValue"` // per round
	KellyFraction      float64 `json:"kellyFraction"`
	KellyStake         float64 `json:"kellyStake"`
	ReturnToPlayer     float64 `json:"returnToPlayer"`
}

// ComputeOdds evaluates the probability model for a bet of bet at
// multiplier. kellyPct scales the suggested stake on bankroll.
func ComputeOdds(houseEdge, multiplier, bet, bankroll, kellyPct float64) Odds {
	crash := game.CrashProbability(houseEdge, multiplier)
	success := 1 - crash

	odds := Odds{
		HouseEdge:          game.ClampHouseEdge(houseEdge),
		Multiplier:         multiplier,
		CrashProbability:   crash,
		SuccessProbability: success,
		ExpectedValue:      game.ExpectedValue(bet, multiplier, success),
		KellyFraction:      game.KellyFraction(success, multiplier-1),
		KellyStake:         game.KellyStake(bankroll, success, multiplier-1, kellyPct),
		ReturnToPlayer:     game.ReturnToPlayer(houseEdge),
	}
	if success > 0 {
		odds.OneIn = int64(1 / success)
	}
	return odds
}
