// Package runner turns simulation requests from the HTTP and websocket
// layers into batch runs and their reports.
package runner

import (
	"encoding/json"
	"fmt"
	"time"

	"crashsim/config"
	"crashsim/game"
)

// Request describes one batch run. Start from DefaultRequest: a zero
// field is a value to validate, not a request for its default.
type Request struct {
	HouseEdge       float64       `json:"houseEdge"`
	Multiplier      float64       `json:"multiplier"`
	Bet             float64       `json:"bet"`
	Bankroll        float64       `json:"bankroll"`
	Strategy        game.Strategy `json:"strategy"`
	Rounds          int           `json:"rounds"`
	Simulations     int           `json:"simulations"`
	Seed            string        `json:"seed,omitempty"`
	Bins            int           `json:"bins"`
	KellyPercent    float64       `json:"kellyPercent"`
	IncludeSessions bool          `json:"includeSessions,omitempty"`
}

// DefaultRequest is a request made only of the defaults in config.
func DefaultRequest() Request {
	return Request{
		HouseEdge:    config.DefaultHouseEdge,
		Multiplier:   config.DefaultMultiplier,
		Bet:          config.DefaultBetAmount,
		Bankroll:     config.DefaultInitialBankroll,
		Strategy:     game.FixedCashout,
		Rounds:       config.DefaultNumRounds,
		Simulations:  config.DefaultNumSimulations,
		Bins:         config.DefaultHistogramBins,
		KellyPercent: config.DefaultKellyPercent,
	}
}

type requestFields Request

// UnmarshalJSON decodes over DefaultRequest, so only fields absent from
// the document take their default. An explicit 0 is kept and rejected by
// Resolve where 0 is invalid.
func (r *Request) UnmarshalJSON(data []byte) error {
	fields := requestFields(DefaultRequest())
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Request(fields)
	return nil
}

// Limits bound what a single request may ask for.
type Limits struct {
	MaxSimulations int
	MaxRounds      int
	Workers        int
	CacheTTL       time.Duration
}

func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		MaxSimulations: cfg.SimMaxSimulations,
		MaxRounds:      cfg.SimMaxRounds,
		Workers:        cfg.SimWorkers,
		CacheTTL:       cfg.CacheTTL,
	}
}

// DefaultLimits are the compiled-in limits, used when no config is loaded.
func DefaultLimits() Limits {
	return Limits{
		MaxSimulations: config.MaxSimulations,
		MaxRounds:      config.MaxRounds,
		CacheTTL:       config.SimulationCacheTTL,
	}
}

// Resolve checks req against limits. Nothing is filled in or corrected,
// apart from the house edge which the model clamps on use.
func Resolve(req Request, limits Limits) (Request, error) {
	switch {
	case req.Rounds < 1 || req.Rounds > limits.MaxRounds:
		return req, fmt.Errorf("%w: rounds must be in [1, %d], got %d", game.ErrInvalidParameter, limits.MaxRounds, req.Rounds)
	case req.Simulations < 1 || req.Simulations > limits.MaxSimulations:
		return req, fmt.Errorf("%w: simulations must be in [1, %d], got %d", game.ErrInvalidParameter, limits.MaxSimulations, req.Simulations)
	case req.Bins < 1 || req.Bins > config.MaxHistogramBins:
		return req, fmt.Errorf("%w: bins must be in [1, %d], got %d", game.ErrInvalidParameter, config.MaxHistogramBins, req.Bins)
	case req.KellyPercent < 0 || req.KellyPercent > 100:
		return req, fmt.Errorf("%w: kelly percent must be in [0, 100], got %v", game.ErrInvalidParameter, req.KellyPercent)
	case req.IncludeSessions && req.Simulations > config.MaxReturnedSessions:
		return req, fmt.Errorf("%w: sessions can only be returned for up to %d simulations", game.ErrInvalidParameter, config.MaxReturnedSessions)
	case !req.Strategy.Valid():
		return req, fmt.Errorf("%w: unknown strategy %d", game.ErrInvalidParameter, int(req.Strategy))
	}

	return req, req.Params().Validate()
}

func (r Request) Params() game.GameParameters {
	return game.GameParameters{
		HouseEdge:        r.HouseEdge,
		TargetMultiplier: r.Multiplier,
		BetAmount:        r.Bet,
		InitialBankroll:  r.Bankroll,
	}
}
