// Package report aggregates simulated sessions into the figures shown to
// users: distribution summaries, histograms, strategy comparisons and
// model calibration against observed crash points.
package report

import (
	"sort"

	"crashsim/game"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a batch of sessions.
// Balance quantiles use the empirical (lower) quantile.
type Summary struct {
	Simulations int `json:"simulations"`
	TotalRounds int `json:"totalRounds"`

	MeanBalance   float64 `json:"meanBalance"`
	MedianBalance float64 `json:"medianBalance"`
	StdDevBalance float64 `json:"stdDevBalance"`
	BestRun       float64 `json:"bestRun"`
	WorstRun      float64 `json:"worstRun"`
	P5Balance     float64 `json:"p5Balance"`
	P25Balance    float64 `json:"p25Balance"`
	P75Balance    float64 `json:"p75Balance"`
	P95Balance    float64 `json:"p95Balance"`

	MeanNetProfit float64 `json:"meanNetProfit"`
	MeanROI       float64 `json:"meanRoi"`
	MeanWinRate   float64 `json:"meanWinRate"`

	ProfitPct     float64 `json:"profitPct"` // sessions ending above the initial bankroll
	LossPct       float64 `json:"lossPct"`   // sessions ending below it
	RuinPct       float64 `json:"ruinPct"`   // sessions ending with nothing
	WorstDrawdown float64 `json:"worstDrawdown"`
}

// Summarize aggregates results of a batch run with numRounds rounds per
// session. An empty batch gives the zero Summary.
func Summarize(results []game.SessionResult, initialBankroll float64, numRounds int) Summary {
	n := len(results)
	if n == 0 {
		return Summary{}
	}

	balances := make([]float64, n)
	net := make([]float64, n)
	roi := make([]float64, n)
	winRates := make([]float64, n)
	drawdowns := make([]float64, n)

	var profit, loss, ruin int
	for i, r := range results {
		balances[i] = r.FinalBalance
		net[i] = r.NetProfit
		roi[i] = r.ROI
		winRates[i] = r.WinRate
		drawdowns[i] = r.MaxDrawdown

		switch {
		case r.FinalBalance > initialBankroll:
			profit++
		case r.FinalBalance < initialBankroll:
			loss++
		}
		if r.FinalBalance <= 0 {
			ruin++
		}
	}

	mean, std := stat.MeanStdDev(balances, nil)
	if n == 1 {
		std = 0
	}

	sorted := append([]float64(nil), balances...)
	sort.Float64s(sorted)

	pct := func(count int) float64 { return float64(count) / float64(n) * 100 }

	return Summary{
		Simulations:   n,
		TotalRounds:   n * numRounds,
		MeanBalance:   mean,
		MedianBalance: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		StdDevBalance: std,
		BestRun:       sorted[n-1],
		WorstRun:      sorted[0],
		P5Balance:     stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P25Balance:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P75Balance:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		P95Balance:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		MeanNetProfit: stat.Mean(net, nil),
		MeanROI:       stat.Mean(roi, nil),
		MeanWinRate:   stat.Mean(winRates, nil),
		ProfitPct:     pct(profit),
		LossPct:       pct(loss),
		RuinPct:       pct(ruin),
		WorstDrawdown: floats.Min(drawdowns),
	}
}
