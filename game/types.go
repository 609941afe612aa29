package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is wrapped by every rejection of caller input.
var ErrInvalidParameter = errors.New("invalid parameter")

// RandSource is the uniform [0,1) source consumed by the simulators.
// *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// GameParameters are fixed for the whole of one simulation run.
type GameParameters struct {
	HouseEdge        float64 `json:"houseEdge"`        // percent, clamped to [0.1, 10]
	TargetMultiplier float64 `json:"targetMultiplier"` // cash-out target, > 1
	BetAmount        float64 `json:"betAmount"`
	InitialBankroll  float64 `json:"initialBankroll"`
}

// Validate rejects parameters the session and batch simulators cannot run.
// The house edge is not an error outside [0.1, 10]: it is clamped on use.
func (p GameParameters) Validate() error {
	switch {
	case math.IsNaN(p.HouseEdge):
		return fmt.Errorf("%w: house edge is NaN", ErrInvalidParameter)
	case math.IsNaN(p.TargetMultiplier) || p.TargetMultiplier <= 1:
		return fmt.Errorf("%w: target multiplier must be > 1, got %v", ErrInvalidParameter, p.TargetMultiplier)
	case math.IsInf(p.TargetMultiplier, 0):
		return fmt.Errorf("%w: target multiplier must be finite", ErrInvalidParameter)
	case math.IsNaN(p.BetAmount) || p.BetAmount <= 0 || math.IsInf(p.BetAmount, 0):
		return fmt.Errorf("%w: bet amount must be positive, got %v", ErrInvalidParameter, p.BetAmount)
	case math.IsNaN(p.InitialBankroll) || p.InitialBankroll <= 0 || math.IsInf(p.InitialBankroll, 0):
		return fmt.Errorf("%w: initial bankroll must be positive, got %v", ErrInvalidParameter, p.InitialBankroll)
	}
	return nil
}

// RoundOutcome is the result of a single round.
type RoundOutcome struct {
	Bankroll float64
	Won      bool
}

// SessionResult summarises one simulated session.
type SessionResult struct {
	Simulation   int     `json:"simulation"` // 1-based index within its batch
	FinalBalance float64 `json:"finalBalance"`
	TotalWins    int     `json:"totalWins"`
	TotalLosses  int     `json:"totalLosses"`
	WinRate      float64 `json:"winRate"`
	NetProfit    float64 `json:"netProfit"`
	MaxDrawdown  float64 `json:"maxDrawdown"` // lowest minus highest bankroll seen, always <= 0
	ROI          float64 `json:"roi"`         // percent of initial bankroll
}

func validateRun(params GameParameters, strategy Strategy, numRounds int) error {
	if numRounds <= 0 {
		return fmt.Errorf("%w: num rounds must be positive, got %d", ErrInvalidParameter, numRounds)
	}
	if !strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %d", ErrInvalidParameter, int(strategy))
	}
	return params.Validate()
}
