package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crashsim/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// PostgresPool holds observed crash history. nil disables every
	// history-backed feature.
	PostgresPool *pgxpool.Pool
)

// CrashHistoryRecord is one observed round: its crash point and what is
// needed to recompute it.
type CrashHistoryRecord struct {
	GameID     string    `db:"game_id" json:"gameId"`
	ServerSeed string    `db:"server_seed" json:"serverSeed"`
	Peak       float64   `db:"peak" json:"peak"`
	HouseEdge  float64   `db:"house_edge" json:"houseEdge"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

const crashHistorySchema = `
CREATE TABLE IF NOT EXISTS crash_history (
	id BIGSERIAL PRIMARY KEY,
	game_id TEXT NOT NULL UNIQUE,
	server_seed TEXT NOT NULL,
	peak DOUBLE PRECISION NOT NULL CHECK (peak >= 1),
	house_edge DOUBLE PRECISION NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_crash_history_created_at ON crash_history(created_at DESC, id DESC);
`

// InitPostgres connects the pool described by cfg and makes sure the
// crash_history table exists.
func InitPostgres(cfg *config.Config) error {
	log.Println("🔌 Connecting to PostgreSQL...")

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	PostgresPool = pool
	log.Println("✅ PostgreSQL connected")

	if err := InitSchema(ctx); err != nil {
		return fmt.Errorf("crash history schema: %w", err)
	}
	return nil
}

func newPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MaxIdleConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL pool...")
		PostgresPool.Close()
		PostgresPool = nil
	}
}

func InitSchema(ctx context.Context) error {
	if _, err := PostgresPool.Exec(ctx, crashHistorySchema); err != nil {
		return err
	}
	log.Println("📋 crash_history table ready")
	return nil
}

/* =========================
   CRASH HISTORY
========================= */

// StoreCrashHistory records an observed round. Rounds already stored under
// the same game ID are left untouched.
func StoreCrashHistory(ctx context.Context, record *CrashHistoryRecord) error {
	if PostgresPool == nil {
		log.Println("⚠️  PostgreSQL not initialized, crash point not recorded")
		return nil
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := PostgresPool.Exec(ctx, `
		INSERT INTO crash_history (game_id, server_seed, peak, house_edge, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id) DO NOTHING`,
		record.GameID, record.ServerSeed, record.Peak, record.HouseEdge, createdAt,
	)
	if err != nil {
		return fmt.Errorf("store crash point %s: %w", record.GameID, err)
	}
	return nil
}

// GetCrashHistory looks up one round. An unknown game ID is (nil, nil).
func GetCrashHistory(ctx context.Context, gameID string) (*CrashHistoryRecord, error) {
	if PostgresPool == nil {
		return nil, nil
	}

	rows, err := PostgresPool.Query(ctx, `
		SELECT game_id, server_seed, peak, house_edge, created_at
		FROM crash_history
		WHERE game_id = $1`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query crash point %s: %w", gameID, err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[CrashHistoryRecord])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read crash point %s: %w", gameID, err)
	}
	return record, nil
}

// GetRecentCrashPoints returns the peaks of the N most recent rounds in
// play order, oldest first, ready for replay.
func GetRecentCrashPoints(ctx context.Context, limit int) ([]float64, error) {
	if PostgresPool == nil {
		return []float64{}, nil
	}

	rows, err := PostgresPool.Query(ctx, `
		SELECT peak FROM (
			SELECT peak, created_at, id
			FROM crash_history
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query crash points: %w", err)
	}

	points, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return nil, fmt.Errorf("collect crash points: %w", err)
	}
	return points, nil
}

/* =========================
   HEALTH CHECK
========================= */

func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return errors.New("PostgreSQL pool not initialized")
	}
	return PostgresPool.Ping(ctx)
}
