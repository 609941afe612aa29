package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"crashsim/game"
)

const scenarioYAML = `
scenarios:
  - name: flat-2x
    house_edge: 1
    multiplier: 2
    bet: 10
    bankroll: 1000
    strategy: Fixed Cash-out
    rounds: 100
    simulations: 500
    seed: demo
  - name: martingale
    strategy: martingale
    multiplier: 1.5
  - strategy: "D'Alembert"
`

func TestParseScenarios(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("ParseScenarios: %v", err)
	}
	if len(scenarios) != 3 {
		t.Fatalf("got %d scenarios, want 3", len(scenarios))
	}

	first := scenarios[0]
	if first.Seed != "demo" || first.Simulations != 500 {
		t.Errorf("first scenario = %+v", first)
	}
	want := game.GameParameters{HouseEdge: 1, TargetMultiplier: 2, BetAmount: 10, InitialBankroll: 1000}
	if first.Params() != want {
		t.Errorf("Params() = %+v, want %+v", first.Params(), want)
	}

	second := scenarios[1]
	if second.StrategyValue() != game.Martingale {
		t.Errorf("strategy = %v, want Martingale", second.StrategyValue())
	}
	if second.Bet != DefaultBetAmount || second.Rounds != DefaultNumRounds || second.Multiplier != 1.5 {
		t.Errorf("defaults not applied: %+v", second)
	}

	third := scenarios[2]
	if third.Name != "scenario-3" {
		t.Errorf("unnamed scenario got name %q", third.Name)
	}
	if third.StrategyValue() != game.DAlembert {
		t.Errorf("strategy = %v, want D'Alembert", third.StrategyValue())
	}
}

func TestParseScenariosKeepsZeroHouseEdge(t *testing.T) {
	scenarios, err := ParseScenarios([]byte("scenarios:\n  - house_edge: 0\n"))
	if err != nil {
		t.Fatalf("ParseScenarios: %v", err)
	}
	if scenarios[0].HouseEdge != 0 {
		t.Errorf("house edge = %v, want 0 kept for the model to clamp", scenarios[0].HouseEdge)
	}
}

func TestParseScenariosErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"empty file", "", false},
		{"not yaml", "scenarios: [", false},
		{"duplicate names", "scenarios:\n  - name: a\n  - name: a\n", false},
		{"unknown strategy", "scenarios:\n  - strategy: labouchere\n", true},
		{"multiplier below one", "scenarios:\n  - multiplier: 0.5\n", true},
		{"negative bankroll", "scenarios:\n  - bankroll: -10\n", true},
		{"too many rounds", "scenarios:\n  - rounds: 1000000\n", true},
		{"negative simulations", "scenarios:\n  - simulations: -1\n", true},
		{"explicit zero rounds", "scenarios:\n  - rounds: 0\n", true},
		{"explicit zero simulations", "scenarios:\n  - simulations: 0\n", true},
		{"explicit zero bet", "scenarios:\n  - bet: 0\n", true},
		{"explicit zero bankroll", "scenarios:\n  - bankroll: 0\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, game.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("LoadScenarios: %v", err)
	}
	if len(scenarios) != 3 {
		t.Errorf("got %d scenarios", len(scenarios))
	}

	if _, err := LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
