package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the server and CLI tools.
type Config struct {
	ServerAddr string

	RedisURL      string
	RedisPassword string
	RedisDB       int

	DatabaseURL string // empty disables crash history

	SimWorkers        int // 0 means runtime.NumCPU()
	SimMaxSimulations int
	SimMaxRounds      int
	CacheTTL          time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr:        getEnvDefault("SERVER_ADDR", ServerHost+":"+ServerPort),
		RedisURL:          getEnvDefault("REDIS_URL", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SimWorkers:        getEnvInt("SIM_WORKERS", 0),
		SimMaxSimulations: getEnvInt("SIM_MAX_SIMULATIONS", MaxSimulations),
		SimMaxRounds:      getEnvInt("SIM_MAX_ROUNDS", MaxRounds),
		CacheTTL:          getEnvDuration("CACHE_TTL", SimulationCacheTTL),
	}

	if cfg.SimWorkers < 0 {
		return nil, fmt.Errorf("SIM_WORKERS must be >= 0, got %d", cfg.SimWorkers)
	}
	if cfg.SimMaxSimulations <= 0 {
		return nil, fmt.Errorf("SIM_MAX_SIMULATIONS must be positive, got %d", cfg.SimMaxSimulations)
	}
	if cfg.SimMaxRounds <= 0 {
		return nil, fmt.Errorf("SIM_MAX_ROUNDS must be positive, got %d", cfg.SimMaxRounds)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
