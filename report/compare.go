package report

import (
	"context"
	"fmt"

	"crashsim/crypto"
	"crashsim/game"
)

// StrategyRow is one line of a strategy comparison.
type StrategyRow struct {
	Strategy        game.Strategy `json:"strategy"`
	AvgFinalBalance float64       `json:"avgFinalBalance"`
	ProfitablePct   float64       `json:"profitablePct"`
	RuinPct         float64       `json:"ruinPct"`
	MeanROI         float64       `json:"meanRoi"`
	WorstDrawdown   float64       `json:"worstDrawdown"`
}

// Comparison runs every strategy against the same seed, so each strategy
// faces identical random draws stream for stream.
type Comparison struct {
	Seed       string        `json:"seed"`
	Commitment string        `json:"commitment"`
	Rows       []StrategyRow `json:"rows"`
}

// CompareStrategies runs all strategies with identical parameters. An empty
// seed draws a fresh one.
func CompareStrategies(ctx context.Context, params game.GameParameters, numRounds, numSimulations int, seed string, opts ...game.BatchOption) (*Comparison, error) {
	if seed == "" {
		var err error
		if seed, _, err = crypto.GenerateRunSeed(); err != nil {
			return nil, err
		}
	}

	cmp := &Comparison{
		Seed:       seed,
		Commitment: crypto.Commit(seed),
	}

	opts = append(opts, game.WithSeed(seed))
	for _, s := range game.Strategies() {
		results, err := game.RunBatch(ctx, params, s, numRounds, numSimulations, opts...)
		if err != nil {
			return nil, fmt.Errorf("strategy %v: %w", s, err)
		}

		sum := Summarize(results, params.InitialBankroll, numRounds)
		cmp.Rows = append(cmp.Rows, StrategyRow{
			Strategy:        s,
			AvgFinalBalance: sum.MeanBalance,
			ProfitablePct:   sum.ProfitPct,
			RuinPct:         sum.RuinPct,
			MeanROI:         sum.MeanROI,
			WorstDrawdown:   sum.WorstDrawdown,
		})
	}
	return cmp, nil
}
