package api

import (
	"errors"
	"log"
	"net/http"

	"crashsim/config"
	"crashsim/crypto"
	"crashsim/db"
	"crashsim/game"
	"crashsim/report"
	"crashsim/ws"

	"github.com/go-chi/chi/v5"
)

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

// HandleHealthCheck handles health check requests
// GET /api/health
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check Redis
	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	// Check PostgreSQL
	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, map[string]interface{}{
		"success":   true,
		"redis":     redisHealth,
		"postgres":  postgresHealth,
		"wsClients": ws.ActiveClients(),
		"message":   "Health check completed",
	})
}

/* =========================
   CALIBRATION
========================= */

type CalibrationResponse struct {
	Success     bool                `json:"success"`
	Calibration *report.Calibration `json:"calibration"`
}

// Calibration handles GET /api/calibration
// Query params: edge (model house edge), limit (number of recent rounds)
func (h *Handler) Calibration(w http.ResponseWriter, r *http.Request) {
	edge, err := floatParam(r, "edge", config.DefaultHouseEdge)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit", config.DefaultCalibrationN)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 || limit > config.MaxCalibrationHistory {
		sendError(w, http.StatusBadRequest, "limit out of range")
		return
	}

	points, err := db.GetRecentCrashPoints(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to load crash points: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to load crash history")
		return
	}

	cal, err := report.Calibrate(points, edge, nil)
	if errors.Is(err, report.ErrNoObservations) {
		sendError(w, http.StatusNotFound, "No crash history recorded")
		return
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("📋 Calibrated against %d crash points (fitted edge %.2f%%)", cal.Observations, cal.FittedHouseEdge)
	sendJSON(w, CalibrationResponse{Success: true, Calibration: cal})
}

/* =========================
   CRASH POINT VERIFICATION
========================= */

type VerifyCrashResponse struct {
	Success    bool    `json:"success"`
	GameID     string  `json:"gameId"`
	ServerSeed string  `json:"serverSeed"`
	HouseEdge  float64 `json:"houseEdge"`
	Recorded   float64 `json:"recorded"`
	Computed   float64 `json:"computed"`
	Valid      bool    `json:"valid"`
}

// VerifyCrash handles GET /api/crash/{gameId}/verify
// It recomputes the crash point from the stored seed and compares it with
// the recorded one.
func (h *Handler) VerifyCrash(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	if gameID == "" {
		sendError(w, http.StatusBadRequest, "Game ID is required")
		return
	}

	record, err := db.GetCrashHistory(r.Context(), gameID)
	if err != nil {
		log.Printf("❌ Failed to get crash history: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to load crash history")
		return
	}
	if record == nil {
		sendError(w, http.StatusNotFound, "Game not found")
		return
	}

	computed := game.VerifyCrashPoint(record.ServerSeed, record.GameID, record.HouseEdge)

	log.Printf("🔍 Crash verification - Game: %s", gameID)
	sendJSON(w, VerifyCrashResponse{
		Success:    true,
		GameID:     record.GameID,
		ServerSeed: record.ServerSeed,
		HouseEdge:  record.HouseEdge,
		Recorded:   record.Peak,
		Computed:   computed,
		Valid:      computed == record.Peak,
	})
}

type VerifyRequest struct {
	ServerSeed     string  `json:"serverSeed"`
	ServerSeedHash string  `json:"serverSeedHash"`
	GameID         string  `json:"gameId"`
	HouseEdge      float64 `json:"houseEdge"`
}

type VerifyResponse struct {
	Valid      bool    `json:"valid"`
	CrashPoint float64 `json:"crashPoint,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// HandleVerifyGame recomputes a crash point from a revealed server seed
// POST /api/verify
func HandleVerifyGame(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ServerSeed == "" || req.ServerSeedHash == "" || req.GameID == "" {
		sendError(w, http.StatusBadRequest, "Missing required fields: serverSeed, serverSeedHash, gameId")
		return
	}

	// Verify the server seed hash
	if !crypto.VerifySeed(req.ServerSeed, req.ServerSeedHash) {
		sendJSON(w, VerifyResponse{
			Valid: false,
			Error: "Server seed hash does not match",
		})
		return
	}

	if req.HouseEdge == 0 {
		req.HouseEdge = config.DefaultHouseEdge
	}
	point := game.VerifyCrashPoint(req.ServerSeed, req.GameID, req.HouseEdge)

	log.Printf("✅ Game verified - GameID: %s, Crash point: %.2fx", req.GameID, point)

	sendJSON(w, VerifyResponse{
		Valid:      true,
		CrashPoint: point,
	})
}
