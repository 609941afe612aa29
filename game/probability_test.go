package game

import (
	"math"
	"testing"
)

// CrashProbability(1, 2) is not compared with 0.0069: 1 - 2^(-k) is close
// to 0.5 at 2x for every edge in range, whichever sign the edge term of k
// takes. The exact value is pinned instead.
func TestCrashProbabilityAtTwoX(t *testing.T) {
	// success at 2x is the fair coin discounted by the edge: 0.5 * exp(-e)
	got := CrashProbability(1.0, 2.0)
	want := 1 - 0.5*math.Exp(-0.01)

	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("CrashProbability(1, 2) = %.12f, want %.12f", got, want)
	}
	if got <= 0.5 {
		t.Errorf("CrashProbability(1, 2) = %f, house must be favoured at 2x", got)
	}
}

func TestCrashProbabilityRange(t *testing.T) {
	multipliers := []float64{1.0001, 1.01, 1.5, 2, 3, 10, 100, 1e6, 1e12, 1e300, math.Inf(1)}

	for edge := 0.1; edge <= 10.0; edge += 0.1 {
		for _, m := range multipliers {
			p := CrashProbability(edge, m)
			if p < 0 || p >= 1 {
				t.Fatalf("CrashProbability(%.1f, %g) = %v, want in [0,1)", edge, m, p)
			}
		}
	}
}

func TestCrashProbabilityAtOrBelowOne(t *testing.T) {
	for _, m := range []float64{1, 0.99, 0.5, 0, -3, math.NaN()} {
		if p := CrashProbability(1, m); p != 0 {
			t.Errorf("CrashProbability(1, %v) = %v, want 0", m, p)
		}
	}
}

func TestCrashProbabilityIncreasingInMultiplier(t *testing.T) {
	multipliers := []float64{1.01, 1.1, 1.5, 2, 2.5, 5, 10, 50, 100, 1000}

	for _, edge := range []float64{0.1, 1, 2.5, 5, 10} {
		prev := CrashProbability(edge, 1)
		for _, m := range multipliers {
			p := CrashProbability(edge, m)
			if p <= prev {
				t.Errorf("edge %.1f: CrashProbability(%g) = %v not above %v", edge, m, p, prev)
			}
			prev = p
		}
	}
}

func TestCrashProbabilityIncreasingInHouseEdge(t *testing.T) {
	for _, m := range []float64{1.1, 2, 5, 100} {
		prev := -1.0
		for edge := 0.1; edge <= 10.0; edge += 0.5 {
			p := CrashProbability(edge, m)
			if p <= prev {
				t.Errorf("m %g: CrashProbability(edge %.1f) = %v not above %v", m, edge, p, prev)
			}
			prev = p
		}
	}
}

func TestCrashProbabilityTendsToOne(t *testing.T) {
	for _, edge := range []float64{0.1, 1, 10} {
		if p := CrashProbability(edge, 1e9); p < 0.999999 {
			t.Errorf("CrashProbability(%.1f, 1e9) = %v, want close to 1", edge, p)
		}
	}
}

func TestHouseEdgeIsClamped(t *testing.T) {
	tests := []struct {
		name  string
		edge  float64
		equal float64
	}{
		{"below minimum", 0, MinHouseEdge},
		{"negative", -4, MinHouseEdge},
		{"above maximum", 50, MaxHouseEdge},
		{"inside range", 3.3, 3.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := CrashProbability(tt.edge, 2), CrashProbability(tt.equal, 2); got != want {
				t.Errorf("CrashProbability(%v, 2) = %v, want %v", tt.edge, got, want)
			}
		})
	}
}

func TestReturnToPlayer(t *testing.T) {
	if got := ReturnToPlayer(1); got != 99 {
		t.Errorf("ReturnToPlayer(1) = %v, want 99", got)
	}
	if got := ReturnToPlayer(25); got != 90 {
		t.Errorf("ReturnToPlayer(25) = %v, want 90 (edge clamped)", got)
	}
}

func TestProbabilityTable(t *testing.T) {
	rows := ProbabilityTable(1, nil, 10)
	if len(rows) != len(DefaultTableMultipliers) {
		t.Fatalf("got %d rows, want %d", len(rows), len(DefaultTableMultipliers))
	}

	for i, row := range rows {
		if row.Multiplier != DefaultTableMultipliers[i] {
			t.Errorf("row %d multiplier = %v, want %v", i, row.Multiplier, DefaultTableMultipliers[i])
		}
		if math.Abs(row.CrashProbability+row.SuccessProbability-1) > 1e-15 {
			t.Errorf("row %d probabilities do not sum to 1", i)
		}
		if math.Abs(row.DecimalOdds*row.SuccessProbability-1) > 1e-12 {
			t.Errorf("row %d decimal odds %v inconsistent with %v", i, row.DecimalOdds, row.SuccessProbability)
		}
	}

	two := rows[1]
	if two.OneIn != 2 {
		t.Errorf("2x OneIn = %d, want 2", two.OneIn)
	}
	if two.Payout != 10 {
		t.Errorf("2x payout = %v, want 10", two.Payout)
	}
}
