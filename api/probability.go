package api

import (
	"net/http"
	"strconv"
	"strings"

	"crashsim/config"
	"crashsim/game"
	"crashsim/runner"
)

/* =========================
   RESPONSE TYPES
========================= */

type ProbabilityResponse struct {
	Success bool        `json:"success"`
	Odds    runner.Odds `json:"odds"`
}

type ProbabilityTableResponse struct {
	Success   bool                  `json:"success"`
	HouseEdge float64               `json:"houseEdge"`
	Bet       float64               `json:"bet"`
	Rows      []game.ProbabilityRow `json:"rows"`
}

/* =========================
   HTTP ENDPOINTS
========================= */

// Probability handles GET /api/probability
// Query params: edge, multiplier, bet, bankroll, kelly (all optional)
func (h *Handler) Probability(w http.ResponseWriter, r *http.Request) {
	edge, err := floatParam(r, "edge", config.DefaultHouseEdge)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	multiplier, err := floatParam(r, "multiplier", config.DefaultMultiplier)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	bet, err := floatParam(r, "bet", config.DefaultBetAmount)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	bankroll, err := floatParam(r, "bankroll", config.DefaultInitialBankroll)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	kelly, err := floatParam(r, "kelly", config.DefaultKellyPercent)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	sendJSON(w, ProbabilityResponse{
		Success: true,
		Odds:    runner.ComputeOdds(edge, multiplier, bet, bankroll, kelly),
	})
}

// ProbabilityTable handles GET /api/probability/table
// Query params: edge, bet, multipliers (comma separated, optional)
func (h *Handler) ProbabilityTable(w http.ResponseWriter, r *http.Request) {
	edge, err := floatParam(r, "edge", config.DefaultHouseEdge)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	bet, err := floatParam(r, "bet", config.DefaultBetAmount)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	var multipliers []float64
	if raw := r.URL.Query().Get("multipliers"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			m, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || !(m > 1) {
				sendError(w, http.StatusBadRequest, "multipliers must be numbers above 1")
				return
			}
			multipliers = append(multipliers, m)
		}
	}

	sendJSON(w, ProbabilityTableResponse{
		Success:   true,
		HouseEdge: game.ClampHouseEdge(edge),
		Bet:       bet,
		Rows:      game.ProbabilityTable(edge, multipliers, bet),
	})
}
