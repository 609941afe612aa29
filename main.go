package main

import (
	"log"
	"net/http"

	"crashsim/api"
	"crashsim/config"
	"crashsim/db"
	"crashsim/runner"
	"crashsim/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	// Initialize database connections
	if err := db.InitPostgres(cfg); err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Backtest, calibration and crash verification will be disabled")
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(cfg); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Seeded runs will not be cached")
	}
	defer db.CloseRedis()

	limits := runner.LimitsFromConfig(cfg)

	r := api.NewRouter(api.NewHandler(limits))
	r.Get("/ws/simulate", ws.NewSimulateHandler(limits))

	log.Printf("🚀 Server starting on %s", cfg.ServerAddr)
	log.Println("")
	log.Println("📡 WebSocket Endpoints:")
	log.Println("   ws://localhost:8080/ws/simulate - Streamed simulation")
	log.Println("   - Send 'simulate' to start, 'cancel' to stop, 'ping' for liveness")
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   GET  /api/health - Health check (Redis + PostgreSQL)")
	log.Println("   GET  /api/probability - Odds for one multiplier")
	log.Println("   GET  /api/probability/table - Probability table")
	log.Println("   POST /api/simulate - Run a batch of sessions")
	log.Println("   POST /api/simulate/compare - Compare all strategies on one seed")
	log.Println("   POST /api/simulate/replay - Replay one session of a seeded run")
	log.Println("   POST /api/simulate/backtest - Replay recorded crash history")
	log.Println("   POST /api/risk - Monte Carlo risk of ruin")
	log.Println("   GET  /api/calibration - Recorded crash points vs the model")
	log.Println("   GET  /api/crash/:gameId/verify - Recompute a recorded crash point")
	log.Println("   POST /api/verify - Verify a crash point from its server seed")
	log.Printf("   Workers: %d, max simulations: %d, max rounds: %d", limits.Workers, limits.MaxSimulations, limits.MaxRounds)
	log.Println("")

	if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
		log.Fatal("❌ Server error:", err)
	}
}
