package game

import "math"

// RunSession plays numRounds rounds from the initial bankroll, sizing each
// bet with strategy, and summarises the session.
func RunSession(rng RandSource, params GameParameters, strategy Strategy, numRounds int) (SessionResult, error) {
	if err := validateRun(params, strategy, numRounds); err != nil {
		return SessionResult{}, err
	}
	return runSession(rng, params, strategy, numRounds), nil
}

func runSession(rng RandSource, params GameParameters, strategy Strategy, numRounds int) SessionResult {
	t := newSessionTracker(params.InitialBankroll)

	for round := 0; round < numRounds; round++ {
		bet := NextBet(strategy, params.BetAmount, t.bankroll, t.wins, round)
		t.record(SimulateRound(rng, bet, params.TargetMultiplier, params.HouseEdge, t.bankroll))
	}
	return t.result(numRounds)
}

// sessionTracker follows bankroll, wins and the lowest and highest bankroll
// seen during a session, the initial bankroll included.
type sessionTracker struct {
	initial  float64
	bankroll float64
	maxSeen  float64
	minSeen  float64
	wins     int
}

func newSessionTracker(initial float64) *sessionTracker {
	return &sessionTracker{
		initial:  initial,
		bankroll: initial,
		maxSeen:  initial,
		minSeen:  initial,
	}
}

func (t *sessionTracker) record(outcome RoundOutcome) {
	t.bankroll = outcome.Bankroll
	if outcome.Won {
		t.wins++
	}
	t.maxSeen = math.Max(t.maxSeen, t.bankroll)
	t.minSeen = math.Min(t.minSeen, t.bankroll)
}

func (t *sessionTracker) result(numRounds int) SessionResult {
	netProfit := t.bankroll - t.initial

	return SessionResult{
		FinalBalance: t.bankroll,
		TotalWins:    t.wins,
		TotalLosses:  numRounds - t.wins,
		WinRate:      float64(t.wins) / float64(numRounds),
		NetProfit:    netProfit,
		MaxDrawdown:  t.minSeen - t.maxSeen,
		ROI:          netProfit / t.initial * 100,
	}
}
