package game

// SimulateRound plays one round of bet at the target multiplier.
// A round the bankroll cannot cover is skipped: the bankroll is returned
// unchanged, the round is not a win and no draw is consumed. A zero stake
// is still played, so a bust session keeps drawing and can record wins.
func SimulateRound(rng RandSource, bet, multiplier, houseEdge, bankroll float64) RoundOutcome {
	if bankroll < bet {
		return RoundOutcome{Bankroll: bankroll}
	}

	crashProb := CrashProbability(houseEdge, multiplier)

	if rng.Float64() > crashProb {
		return RoundOutcome{Bankroll: bankroll + bet*(multiplier-1), Won: true}
	}
	return RoundOutcome{Bankroll: bankroll - bet}
}
