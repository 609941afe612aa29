package config

import "time"

/* =========================
   SIMULATION DEFAULTS
========================= */

const (
	DefaultHouseEdge       = 1.0  // percent
	DefaultMultiplier      = 2.0  // cash-out target
	DefaultBetAmount       = 10.0 // per round
	DefaultInitialBankroll = 1000.0
	DefaultNumRounds       = 100
	DefaultNumSimulations  = 1000
	DefaultKellyPercent    = 25.0 // fraction of full Kelly shown as the suggested stake
	DefaultHistogramBins   = 20
)

/* =========================
   SIMULATION LIMITS
========================= */

const (
	// Requests above these are rejected, not truncated
	MaxSimulations        = 100000
	MaxRounds             = 10000
	MaxStreamSimulations  = 5000 // websocket runs send one message per session
	MaxHistogramBins      = 200
	MaxReturnedSessions   = 1000
	MaxCalibrationHistory = 10000
	DefaultCalibrationN   = 1000
)

/* =========================
   REDIS TTL CONFIGURATION
========================= */

const (
	// Seeded batch summaries are deterministic, so they can be cached.
	// Key: sim:run:{hash}
	SimulationCacheTTL = 1 * time.Hour
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	RedisSimulationKey = "sim:run:%s" // sim:run:{keccak of request}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MaxIdleConns    = 5
	ConnMaxLifetime = 5 * time.Minute
)

/* =========================
   API CONFIGURATION
========================= */

const (
	// Server settings
	ServerPort = "8080"
	ServerHost = "0.0.0.0"

	// CORS settings
	AllowOrigin = "*"

	RequestTimeout = 60 * time.Second
	MaxBodyBytes   = 1 << 20
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// WebSocket settings
	WSReadDeadline  = 60 * time.Second
	WSWriteDeadline = 10 * time.Second
	WSPingInterval  = (WSReadDeadline * 9) / 10

	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024

	// Message size limits
	MaxMessageSize = 512 * 1024 // 512KB
)
