package game

import "math"

const (
	MinHouseEdge = 0.1  // percent
	MaxHouseEdge = 10.0 // percent
)

// DefaultTableMultipliers are the rows of ProbabilityTable when none are given.
var DefaultTableMultipliers = []float64{1.5, 2, 3, 5, 10, 20, 50, 100}

// ClampHouseEdge forces a house edge percentage into [MinHouseEdge, MaxHouseEdge].
func ClampHouseEdge(houseEdge float64) float64 {
	return math.Max(MinHouseEdge, math.Min(houseEdge, MaxHouseEdge))
}

// paretoShape is the tail index k of the crash-point distribution.
// With k = 1 + e/ln2 the survival probability at 2x is exactly 0.5*exp(-e):
// the fair-coin chance discounted by the house edge.
func paretoShape(houseEdge float64) float64 {
	return 1 + (ClampHouseEdge(houseEdge)/100)/math.Ln2
}

// CrashProbability returns the probability that a round crashes before
// reaching multiplier, P(crash < m) = 1 - m^(-k).
// Multipliers at or below 1 always succeed and return 0.
func CrashProbability(houseEdge, multiplier float64) float64 {
	if !(multiplier > 1) {
		return 0
	}
	k := paretoShape(houseEdge)

	// 1 - exp(-k ln m), evaluated without cancellation near m = 1
	p := -math.Expm1(-k * math.Log(multiplier))

	// Huge multipliers would round to exactly 1.
	if p >= 1 {
		p = math.Nextafter(1, 0)
	}
	return p
}

// SuccessProbability is the chance of cashing out at multiplier.
func SuccessProbability(houseEdge, multiplier float64) float64 {
	return 1 - CrashProbability(houseEdge, multiplier)
}

// ReturnToPlayer is the long-run percentage of stakes paid back.
func ReturnToPlayer(houseEdge float64) float64 {
	return 100 - ClampHouseEdge(houseEdge)
}

// ProbabilityRow is one line of a probability table.
type ProbabilityRow struct {
	Multiplier         float64 `json:"multiplier"`
	CrashProbability   float64 `json:"crashProbability"`
	SuccessProbability float64 `json:"successProbability"`
	OneIn              int64   `json:"oneIn"` // success is a "1 in N" event
	DecimalOdds        float64 `json:"decimalOdds"`
	Payout             float64 `json:"payout"` // net win for bet at this multiplier
}

// ProbabilityTable tabulates crash and success odds for each multiplier.
func ProbabilityTable(houseEdge float64, multipliers []float64, bet float64) []ProbabilityRow {
	if len(multipliers) == 0 {
		multipliers = DefaultTableMultipliers
	}

	rows := make([]ProbabilityRow, 0, len(multipliers))
	for _, m := range multipliers {
		crash := CrashProbability(houseEdge, m)
		success := 1 - crash

		row := ProbabilityRow{
			Multiplier:         m,
			CrashProbability:   crash,
			SuccessProbability: success,
			Payout:             bet*m - bet,
		}
		if success > 0 {
			row.DecimalOdds = 1 / success
			row.OneIn = int64(1 / success)
		}
		rows = append(rows, row)
	}
	return rows
}
