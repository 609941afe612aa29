package game

import (
	"fmt"
	"math"
	"testing"
)

func TestSampleCrashPointBounds(t *testing.T) {
	rng := NewSeededRNG("bounds")

	for i := 0; i < 10000; i++ {
		p := SampleCrashPoint(rng, 1)
		if p < MinCrashPoint || p > MaxCrashPoint {
			t.Fatalf("crash point %v outside [%v, %v]", p, MinCrashPoint, MaxCrashPoint)
		}
		if math.Abs(p*100-math.Round(p*100)) > 1e-6 {
			t.Fatalf("crash point %v not on the 0.01 grid", p)
		}
	}

	if p := SampleCrashPoint(always(0), 1); p != MinCrashPoint {
		t.Errorf("u=0 crash point = %v, want %v", p, MinCrashPoint)
	}
	if p := SampleCrashPoint(always(math.Nextafter(1, 0)), 1); p != MaxCrashPoint {
		t.Errorf("u near 1 crash point = %v, want %v", p, MaxCrashPoint)
	}
}

func TestSampleCrashPointMatchesCrashProbability(t *testing.T) {
	const draws = 200000
	rng := NewSeededRNG("distribution")

	for _, m := range []float64{1.5, 2, 5} {
		below := 0
		for i := 0; i < draws; i++ {
			if SampleCrashPoint(rng, 1) < m {
				below++
			}
		}

		got := float64(below) / draws
		want := CrashProbability(1, m)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("P(crash < %g) = %.4f over %d draws, want %.4f", m, got, draws, want)
		}
	}
}

func TestVerifyCrashPoint(t *testing.T) {
	first := VerifyCrashPoint("server-seed", "game-1", 1)
	if again := VerifyCrashPoint("server-seed", "game-1", 1); again != first {
		t.Fatalf("VerifyCrashPoint not deterministic: %v then %v", first, again)
	}

	distinct := make(map[float64]bool)
	for i := 0; i < 10; i++ {
		distinct[VerifyCrashPoint("server-seed", fmt.Sprintf("game-%d", i), 1)] = true
	}
	if len(distinct) < 2 {
		t.Errorf("ten games produced %d distinct crash points", len(distinct))
	}
}

func TestPlayCrashPoint(t *testing.T) {
	tests := []struct {
		name       string
		crashPoint float64
		bet        float64
		bankroll   float64
		want       RoundOutcome
	}{
		{"crash above target wins", 2.5, 10, 100, RoundOutcome{Bankroll: 110, Won: true}},
		{"crash at target wins", 2, 10, 100, RoundOutcome{Bankroll: 110, Won: true}},
		{"crash below target loses", 1.99, 10, 100, RoundOutcome{Bankroll: 90}},
		{"bet above bankroll skips", 5, 10, 9, RoundOutcome{Bankroll: 9}},
		{"zero bet still wins", 5, 0, 50, RoundOutcome{Bankroll: 50, Won: true}},
		{"zero bet still loses", 1.5, 0, 0, RoundOutcome{Bankroll: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlayCrashPoint(tt.bet, 2, tt.crashPoint, tt.bankroll); got != tt.want {
				t.Errorf("PlayCrashPoint = %+v, want %+v", got, tt.want)
			}
		})
	}
}
