package config

import (
	"fmt"
	"os"

	"crashsim/game"

	"gopkg.in/yaml.v3"
)

// Scenario is one named simulation setup read from a YAML file.
// Keys missing from the file take the package defaults; a key given as 0
// is kept and fails validation where 0 is not allowed.
type Scenario struct {
	Name        string  `yaml:"name"`
	HouseEdge   float64 `yaml:"house_edge"`
	Multiplier  float64 `yaml:"multiplier"`
	Bet         float64 `yaml:"bet"`
	Bankroll    float64 `yaml:"bankroll"`
	Strategy    string  `yaml:"strategy"`
	Rounds      int     `yaml:"rounds"`
	Simulations int     `yaml:"simulations"`
	Seed        string  `yaml:"seed"`
}

type scenarioFields Scenario

func defaultScenario() Scenario {
	return Scenario{
		HouseEdge:   DefaultHouseEdge,
		Multiplier:  DefaultMultiplier,
		Bet:         DefaultBetAmount,
		Bankroll:    DefaultInitialBankroll,
		Strategy:    game.FixedCashout.String(),
		Rounds:      DefaultNumRounds,
		Simulations: DefaultNumSimulations,
	}
}

// UnmarshalYAML decodes the scenario over the defaults.
func (s *Scenario) UnmarshalYAML(value *yaml.Node) error {
	fields := scenarioFields(defaultScenario())
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*s = Scenario(fields)
	return nil
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads and validates every scenario in filename.
func LoadScenarios(filename string) ([]Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenarios(data)
}

func ParseScenarios(data []byte) ([]Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined")
	}

	seen := make(map[string]bool)
	for i := range file.Scenarios {
		sc := &file.Scenarios[i]
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}

		if seen[sc.Name] {
			return nil, fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true

		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return file.Scenarios, nil
}

func (s Scenario) Validate() error {
	if _, err := game.ParseStrategy(s.Strategy); err != nil {
		return err
	}
	if s.Rounds < 1 || s.Rounds > MaxRounds {
		return fmt.Errorf("%w: rounds must be in [1, %d], got %d", game.ErrInvalidParameter, MaxRounds, s.Rounds)
	}
	if s.Simulations < 1 || s.Simulations > MaxSimulations {
		return fmt.Errorf("%w: simulations must be in [1, %d], got %d", game.ErrInvalidParameter, MaxSimulations, s.Simulations)
	}
	return s.Params().Validate()
}

func (s Scenario) Params() game.GameParameters {
	return game.GameParameters{
		HouseEdge:        s.HouseEdge,
		TargetMultiplier: s.Multiplier,
		BetAmount:        s.Bet,
		InitialBankroll:  s.Bankroll,
	}
}

// StrategyValue returns the parsed strategy. Only valid after Validate.
func (s Scenario) StrategyValue() game.Strategy {
	st, _ := game.ParseStrategy(s.Strategy)
	return st
}
