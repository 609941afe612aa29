package runner

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"crashsim/crypto"
	"crashsim/db"
	"crashsim/game"
	"crashsim/report"

	"github.com/google/uuid"
)

// Result is everything reported for one batch run.
type Result struct {
	RunID      string               `json:"runId"`
	Seed       string               `json:"seed"`
	Commitment string               `json:"commitment"`
	Request    Request              `json:"request"`
	Odds       Odds                 `json:"odds"`
	Summary    report.Summary       `json:"summary"`
	Histogram  []report.Bin         `json:"histogram"`
	Sessions   []game.SessionResult `json:"sessions,omitempty"`
	Cached     bool                 `json:"cached"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type execConfig struct {
	progress func(game.SessionResult)
}

// Option tunes Execute.
type Option func(*execConfig)

// WithProgress streams each session as it completes. Runs with a progress
// callback bypass the cache.
func WithProgress(fn func(game.SessionResult)) Option {
	return func(c *execConfig) { c.progress = fn }
}

// Execute resolves req, runs the batch and reports on it. Requests that
// name a seed are deterministic and are served from the Redis cache when
// possible.
func Execute(ctx context.Context, req Request, limits Limits, opts ...Option) (*Result, error) {
	var cfg execConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	req, err := Resolve(req, limits)
	if err != nil {
		return nil, err
	}

	cacheable := req.Seed != "" && cfg.progress == nil
	var hash string
	if cacheable {
		hash = CacheKey(req)
		var cached Result
		ok, err := db.GetCachedRun(ctx, hash, &cached)
		if err != nil {
			log.Printf("⚠️  Cache lookup failed: %v", err)
			if errors.Is(err, db.ErrCorruptCachedRun) {
				if err := db.DeleteCachedRun(ctx, hash); err != nil {
					log.Printf("⚠️  Failed to drop cached run: %v", err)
				}
			}
		} else if ok {
			cached.Cached = true
			return &cached, nil
		}
	}

	seed, commitment := req.Seed, ""
	if seed == "" {
		if seed, commitment, err = crypto.GenerateRunSeed(); err != nil {
			return nil, err
		}
	} else {
		commitment = crypto.Commit(seed)
	}

	batchOpts := []game.BatchOption{
		game.WithSeed(seed),
		game.WithWorkers(limits.Workers),
	}
	if cfg.progress != nil {
		batchOpts = append(batchOpts, game.WithProgress(cfg.progress))
	}

	results, err := game.RunBatch(ctx, req.Params(), req.Strategy, req.Rounds, req.Simulations, batchOpts...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Seed:       seed,
		Commitment: commitment,
		Request:    req,
		Odds:       ComputeOdds(req.HouseEdge, req.Multiplier, req.Bet, req.Bankroll, req.KellyPercent),
		Summary:    report.Summarize(results, req.Bankroll, req.Rounds),
		Histogram:  report.Histogram(report.FinalBalances(results), req.Bins),
		CreatedAt:  time.Now().UTC(),
	}
	if req.IncludeSessions {
		res.Sessions = results
	}

	if cacheable {
		if err := db.StoreCachedRun(ctx, hash, res, limits.CacheTTL); err != nil {
			log.Printf("⚠️  Failed to cache run %s: %v", res.RunID, err)
		}
	}

	log.Printf("🎰 Run %s: %v x%d sessions, %d rounds, mean balance %.2f",
		res.RunID, req.Strategy, req.Simulations, req.Rounds, res.Summary.MeanBalance)
	return res, nil
}

// CacheKey identifies a resolved, seeded request.
func CacheKey(req Request) string {
	data, _ := json.Marshal(req)
	return crypto.Commit(string(data))
}
