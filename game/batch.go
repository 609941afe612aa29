package game

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"crashsim/crypto"
)

type batchConfig struct {
	workers  int
	seed     string
	progress func(SessionResult)
}

// BatchOption tunes RunBatch and RiskOfRuin.
type BatchOption func(*batchConfig)

// WithWorkers caps the number of sessions simulated concurrently.
// Values below 1 fall back to runtime.NumCPU().
func WithWorkers(n int) BatchOption {
	return func(c *batchConfig) { c.workers = n }
}

// WithSeed makes a batch reproducible: session i always draws from stream i
// of seed, whatever the worker count.
func WithSeed(seed string) BatchOption {
	return func(c *batchConfig) { c.seed = seed }
}

// WithProgress registers fn to receive each session as it completes.
// Calls happen on the goroutine that called RunBatch, one at a time, in
// completion order.
func WithProgress(fn func(SessionResult)) BatchOption {
	return func(c *batchConfig) { c.progress = fn }
}

func newBatchConfig(opts []BatchOption) (batchConfig, error) {
	var cfg batchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.NumCPU()
	}
	if cfg.seed == "" {
		seed, _, err := crypto.GenerateRunSeed()
		if err != nil {
			return cfg, err
		}
		cfg.seed = seed
	}
	return cfg, nil
}

// RunBatch simulates numSimulations independent sessions and returns them
// ordered by simulation index. Aggregation is left to the caller.
func RunBatch(ctx context.Context, params GameParameters, strategy Strategy, numRounds, numSimulations int, opts ...BatchOption) ([]SessionResult, error) {
	if numSimulations <= 0 {
		return nil, fmt.Errorf("%w: num simulations must be positive, got %d", ErrInvalidParameter, numSimulations)
	}
	if err := validateRun(params, strategy, numRounds); err != nil {
		return nil, err
	}

	cfg, err := newBatchConfig(opts)
	if err != nil {
		return nil, err
	}
	results := make([]SessionResult, numSimulations)

	task := func(i int) {
		res := runSession(NewStreamRNG(cfg.seed, i), params, strategy, numRounds)
		res.Simulation = i + 1
		results[i] = res
	}

	var done func(int)
	if cfg.progress != nil {
		done = func(i int) { cfg.progress(results[i]) }
	}

	if err := runPool(ctx, numSimulations, cfg.workers, task, done); err != nil {
		return nil, err
	}
	return results, nil
}

// runPool runs task(0..n-1) on up to workers goroutines. done, when set, is
// called from the caller's goroutine after each task finishes. It returns
// the context error if the pool was stopped before every task ran.
func runPool(ctx context.Context, n, workers int, task func(i int), done func(i int)) error {
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	finished := make(chan int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				task(i)
				finished <- i
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(finished)
	}()

	completed := 0
	for i := range finished {
		completed++
		if done != nil {
			done(i)
		}
	}

	if completed < n {
		return ctx.Err()
	}
	return nil
}
