package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"crashsim/config"
	"crashsim/crypto"
	"crashsim/db"
	"crashsim/game"

	"github.com/google/uuid"
)

// seed_history fills crash_history with provably fair synthetic rounds so
// calibration, backtests and verification have data to work on.
func main() {
	n := flag.Int("n", 1000, "number of rounds to insert")
	edge := flag.Float64("edge", config.DefaultHouseEdge, "house edge (percent) used to draw crash points")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	if err := db.InitPostgres(cfg); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	ctx := context.Background()

	fmt.Printf("Seeding crash history with %d rounds at %.2f%% edge...\n", *n, game.ClampHouseEdge(*edge))

	start := time.Now().Add(-time.Duration(*n) * 10 * time.Second)
	stored := 0
	for i := 0; i < *n; i++ {
		serverSeed, _, err := crypto.GenerateRunSeed()
		if err != nil {
			log.Fatalf("Failed to generate seed: %v", err)
		}
		gameID := uuid.NewString()

		record := &db.CrashHistoryRecord{
			GameID:     gameID,
			ServerSeed: serverSeed,
			Peak:       game.VerifyCrashPoint(serverSeed, gameID, *edge),
			HouseEdge:  game.ClampHouseEdge(*edge),
			CreatedAt:  start.Add(time.Duration(i) * 10 * time.Second),
		}
		if err := db.StoreCrashHistory(ctx, record); err != nil {
			log.Printf("Failed to insert %s: %v", gameID[:8], err)
			continue
		}
		stored++
	}

	fmt.Printf("\nDone! Inserted %d rounds. Checking calibration...\n", stored)

	points, err := db.GetRecentCrashPoints(ctx, *n)
	if err != nil {
		log.Fatalf("Failed to read crash points: %v", err)
	}

	below2 := 0
	for _, p := range points {
		if p < 2 {
			below2++
		}
	}
	fmt.Printf("  %d points, %.2f%% crashed below 2x (model %.2f%%)\n",
		len(points),
		float64(below2)/float64(max(len(points), 1))*100,
		game.CrashProbability(*edge, 2)*100)
}
