package api

import (
	"crashsim/config"
	"crashsim/runner"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Handler serves the simulation API.
type Handler struct {
	limits runner.Limits
}

func NewHandler(limits runner.Limits) *Handler {
	return &Handler{limits: limits}
}

// NewRouter mounts every API endpoint of h on a chi router.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.AllowOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/api", func(rr chi.Router) {
		rr.Get("/health", HandleHealthCheck)

		rr.Get("/probability", h.Probability)
		rr.Get("/probability/table", h.ProbabilityTable)

		rr.Post("/simulate", h.Simulate)
		rr.Post("/simulate/compare", h.Compare)
		rr.Post("/simulate/replay", h.Replay)
		rr.Post("/simulate/backtest", h.Backtest)
		rr.Post("/risk", h.RiskOfRuin)

		rr.Get("/calibration", h.Calibration)
		rr.Get("/crash/{gameId}/verify", h.VerifyCrash)
		rr.Post("/verify", HandleVerifyGame)
	})

	return r
}
