package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"crashsim/config"
	"crashsim/crypto"
	"crashsim/db"
	"crashsim/game"
	"crashsim/report"
	"crashsim/runner"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

type SimulateResponse struct {
	Success bool           `json:"success"`
	Result  *runner.Result `json:"result"`
}

type CompareResponse struct {
	Success    bool               `json:"success"`
	Comparison *report.Comparison `json:"comparison"`
}

// ReplayRequest re-runs one session of a seeded batch.
type ReplayRequest struct {
	runner.Request
	Simulation int `json:"simulation"` // 1-based
}

// UnmarshalJSON decodes the run fields through runner.Request, which would
// otherwise be promoted and swallow the simulation index.
func (r *ReplayRequest) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Request); err != nil {
		return err
	}
	var index struct {
		Simulation int `json:"simulation"`
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	r.Simulation = index.Simulation
	return nil
}

type ReplayResponse struct {
	Success bool               `json:"success"`
	Seed    string             `json:"seed"`
	Session game.SessionResult `json:"session"`
}

// BacktestRequest plays a strategy over the most recent recorded crash points.
type BacktestRequest struct {
	runner.Request
	Limit int `json:"limit"`
}

func (r *BacktestRequest) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.Request); err != nil {
		return err
	}
	var limit struct {
		Limit int `json:"limit"`
	}
	if err := json.Unmarshal(data, &limit); err != nil {
		return err
	}
	r.Limit = limit.Limit
	return nil
}

type BacktestResponse struct {
	Success bool               `json:"success"`
	Rounds  int                `json:"rounds"`
	Session game.SessionResult `json:"session"`
}

type RiskResponse struct {
	Success     bool    `json:"success"`
	Seed        string  `json:"seed"`
	Commitment  string  `json:"commitment"`
	RiskOfRuin  float64 `json:"riskOfRuin"` // percent
	Rounds      int     `json:"rounds"`
	Simulations int     `json:"simulations"`
}

/* =========================
   HTTP ENDPOINTS
========================= */

// Simulate handles POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req runner.Request
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	res, err := runner.Execute(ctx, req, h.limits)
	if err != nil {
		sendRunError(w, err)
		return
	}

	sendJSON(w, SimulateResponse{Success: true, Result: res})
}

// Compare handles POST /api/simulate/compare
// The strategy field of the request is ignored: every strategy is run.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req runner.Request
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := runner.Resolve(req, h.limits)
	if err != nil {
		sendRunError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	cmp, err := report.CompareStrategies(ctx, req.Params(), req.Rounds, req.Simulations, req.Seed,
		game.WithWorkers(h.limits.Workers))
	if err != nil {
		sendRunError(w, err)
		return
	}

	log.Printf("🎰 Compared strategies: %d sessions x %d rounds", req.Simulations, req.Rounds)
	sendJSON(w, CompareResponse{Success: true, Comparison: cmp})
}

// Replay handles POST /api/simulate/replay
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	var req ReplayRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Seed == "" {
		sendError(w, http.StatusBadRequest, "seed is required")
		return
	}

	resolved, err := runner.Resolve(req.Request, h.limits)
	if err != nil {
		sendRunError(w, err)
		return
	}
	if req.Simulation > resolved.Simulations {
		sendError(w, http.StatusBadRequest, "simulation index exceeds the batch size")
		return
	}

	session, err := game.ReplaySession(resolved.Seed, req.Simulation, resolved.Params(), resolved.Strategy, resolved.Rounds)
	if err != nil {
		sendRunError(w, err)
		return
	}

	sendJSON(w, ReplayResponse{Success: true, Seed: resolved.Seed, Session: session})
}

// Backtest handles POST /api/simulate/backtest
func (h *Handler) Backtest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Limit <= 0 {
		req.Limit = config.DefaultCalibrationN
	}
	if req.Limit > config.MaxCalibrationHistory {
		sendError(w, http.StatusBadRequest, "limit too large")
		return
	}

	resolved, err := runner.Resolve(req.Request, h.limits)
	if err != nil {
		sendRunError(w, err)
		return
	}

	points, err := db.GetRecentCrashPoints(r.Context(), req.Limit)
	if err != nil {
		log.Printf("❌ Failed to load crash points: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to load crash history")
		return
	}
	if len(points) == 0 {
		sendError(w, http.StatusNotFound, "No crash history recorded")
		return
	}

	session, err := game.ReplayCrashPoints(points, resolved.Params(), resolved.Strategy)
	if err != nil {
		sendRunError(w, err)
		return
	}

	sendJSON(w, BacktestResponse{Success: true, Rounds: len(points), Session: session})
}

// RiskOfRuin handles POST /api/risk
func (h *Handler) RiskOfRuin(w http.ResponseWriter, r *http.Request) {
	var req runner.Request
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := runner.Resolve(req, h.limits)
	if err != nil {
		sendRunError(w, err)
		return
	}

	seed, commitment := req.Seed, crypto.Commit(req.Seed)
	if seed == "" {
		if seed, commitment, err = crypto.GenerateRunSeed(); err != nil {
			sendRunError(w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	ruin, err := game.RiskOfRuin(ctx, req.Params(), req.Rounds, req.Simulations,
		game.WithSeed(seed), game.WithWorkers(h.limits.Workers))
	if err != nil {
		sendRunError(w, err)
		return
	}

	sendJSON(w, RiskResponse{
		Success:     true,
		Seed:        seed,
		Commitment:  commitment,
		RiskOfRuin:  ruin,
		Rounds:      req.Rounds,
		Simulations: req.Simulations,
	})
}
