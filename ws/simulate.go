package ws

import (
	"context"
	"errors"
	"fmt"
	"log"

	"crashsim/config"
	"crashsim/game"
	"crashsim/runner"
)

// startSimulation validates req and runs it in the background, streaming
// a "session" message per finished session and a final "summary".
func (c *ClientConnection) startSimulation(ctx context.Context, req runner.Request) {
	req, err := runner.Resolve(req, c.limits)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if req.Simulations > config.MaxStreamSimulations {
		c.sendError(fmt.Sprintf("streamed runs are limited to %d simulations", config.MaxStreamSimulations))
		return
	}
	// sessions are streamed, not repeated in the summary
	req.IncludeSessions = false

	c.mu.Lock()
	if c.cancelRun != nil {
		c.mu.Unlock()
		c.sendError("a simulation is already running")
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelRun = cancel
	c.runs.Add(1)
	c.mu.Unlock()

	c.send("started", req)

	go func() {
		defer c.runs.Done()

		res, err := runner.Execute(runCtx, req, c.limits, runner.WithProgress(func(s game.SessionResult) {
			c.send("session", s)
		}))

		// idle again before the client sees the final message
		c.mu.Lock()
		c.cancelRun = nil
		c.mu.Unlock()
		cancel()

		switch {
		case errors.Is(err, context.Canceled):
			log.Printf("⚠️  Simulation for client %s cancelled", c.ID)
			c.send("cancelled", nil)
		case err != nil:
			c.sendError(err.Error())
		default:
			c.send("summary", res)
		}
	}()
}
