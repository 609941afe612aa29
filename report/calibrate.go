package report

import (
	"errors"
	"math"

	"crashsim/game"
)

// ErrNoObservations is returned when there is nothing to calibrate against.
var ErrNoObservations = errors.New("no usable crash points")

// CalibrationRow compares the observed share of rounds crashing before a
// multiplier with the model's CrashProbability.
type CalibrationRow struct {
	Multiplier float64 `json:"multiplier"`
	Observed   float64 `json:"observed"`
	Model      float64 `json:"model"`
	Diff       float64 `json:"diff"` // observed - model
}

type Calibration struct {
	Observations    int              `json:"observations"`
	HouseEdge       float64          `json:"houseEdge"`
	FittedHouseEdge float64          `json:"fittedHouseEdge"`
	Rows            []CalibrationRow `json:"rows"`
}

// Calibrate checks recorded crash points against the model at houseEdge.
func Calibrate(points []float64, houseEdge float64, multipliers []float64) (*Calibration, error) {
	if len(points) == 0 {
		return nil, ErrNoObservations
	}
	if len(multipliers) == 0 {
		multipliers = game.DefaultTableMultipliers
	}

	fitted, err := FitHouseEdge(points)
	if err != nil {
		return nil, err
	}

	cal := &Calibration{
		Observations:    len(points),
		HouseEdge:       game.ClampHouseEdge(houseEdge),
		FittedHouseEdge: fitted,
	}

	for _, m := range multipliers {
		below := 0
		for _, p := range points {
			if p < m {
				below++
			}
		}
		observed := float64(below) / float64(len(points))
		model := game.CrashProbability(houseEdge, m)

		cal.Rows = append(cal.Rows, CalibrationRow{
			Multiplier: m,
			Observed:   observed,
			Model:      model,
			Diff:       observed - model,
		})
	}
	return cal, nil
}

// FitHouseEdge estimates the house edge implied by observed crash points
// using the maximum likelihood Pareto tail index k = n / sum(ln x).
// Points are taken as floored to 0.01, so each is read at the middle of
// its tick. The result is not clamped.
func FitHouseEdge(points []float64) (float64, error) {
	var logSum float64
	n := 0
	for _, p := range points {
		if !(p >= game.MinCrashPoint) || math.IsInf(p, 0) {
			continue
		}
		logSum += math.Log(p + 0.005)
		n++
	}
	if n == 0 || logSum <= 0 {
		return 0, ErrNoObservations
	}

	k := float64(n) / logSum
	return (k - 1) * math.Ln2 * 100, nil
}
