package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"crashsim/config"
	"crashsim/game"
	"crashsim/report"
	"crashsim/runner"
)

func main() {
	edge := flag.Float64("edge", config.DefaultHouseEdge, "house edge in percent (clamped to [0.1, 10])")
	multiplier := flag.Float64("multiplier", config.DefaultMultiplier, "cash-out target multiplier")
	bet := flag.Float64("bet", config.DefaultBetAmount, "base bet per round")
	bankroll := flag.Float64("bankroll", config.DefaultInitialBankroll, "initial bankroll")
	strategyName := flag.String("strategy", "fixed", "fixed, martingale, fibonacci or dalembert")
	rounds := flag.Int("rounds", config.DefaultNumRounds, "rounds per session")
	sims := flag.Int("sims", config.DefaultNumSimulations, "number of sessions")
	seed := flag.String("seed", "", "run seed for reproducible results (random when empty)")
	workers := flag.Int("workers", 0, "worker goroutines (0 = SIM_WORKERS or all CPUs)")
	scenarios := flag.String("scenarios", "", "YAML file of scenarios to run instead of the flags")
	compare := flag.Bool("compare", false, "compare every strategy on the same seed")
	table := flag.Bool("table", false, "print the probability table and exit")
	fairness := flag.Int("fairness", 0, "draw N crash points and compare them with the model, then exit")
	asJSON := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	limits := runner.LimitsFromConfig(cfg)
	if *workers > 0 {
		limits.Workers = *workers
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *table {
		printTable(*edge, *bet)
		return
	}
	if *fairness > 0 {
		runFairness(*edge, *fairness, *seed)
		return
	}

	strategy, err := game.ParseStrategy(*strategyName)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	var requests []namedRequest
	if *scenarios != "" {
		loaded, err := config.LoadScenarios(*scenarios)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		for _, sc := range loaded {
			req := runner.DefaultRequest()
			req.HouseEdge = sc.HouseEdge
			req.Multiplier = sc.Multiplier
			req.Bet = sc.Bet
			req.Bankroll = sc.Bankroll
			req.Strategy = sc.StrategyValue()
			req.Rounds = sc.Rounds
			req.Simulations = sc.Simulations
			req.Seed = sc.Seed
			requests = append(requests, namedRequest{name: sc.Name, req: req})
		}
	} else {
		req := runner.DefaultRequest()
		req.HouseEdge = *edge
		req.Multiplier = *multiplier
		req.Bet = *bet
		req.Bankroll = *bankroll
		req.Strategy = strategy
		req.Rounds = *rounds
		req.Simulations = *sims
		req.Seed = *seed
		requests = append(requests, namedRequest{name: "flags", req: req})
	}

	for _, nr := range requests {
		if *compare {
			runCompare(ctx, nr, limits, *asJSON)
			continue
		}

		res, err := runner.Execute(ctx, nr.req, limits)
		if err != nil {
			log.Fatalf("❌ %s: %v", nr.name, err)
		}
		if *asJSON {
			printJSON(res)
			continue
		}
		printResult(nr.name, res)
	}
}

type namedRequest struct {
	name string
	req  runner.Request
}

func runCompare(ctx context.Context, nr namedRequest, limits runner.Limits, asJSON bool) {
	req, err := runner.Resolve(nr.req, limits)
	if err != nil {
		log.Fatalf("❌ %s: %v", nr.name, err)
	}

	cmp, err := report.CompareStrategies(ctx, req.Params(), req.Rounds, req.Simulations, req.Seed,
		game.WithWorkers(limits.Workers))
	if err != nil {
		log.Fatalf("❌ %s: %v", nr.name, err)
	}
	if asJSON {
		printJSON(cmp)
		return
	}

	fmt.Printf("\n=== %s: strategy comparison (seed %s) ===\n", nr.name, cmp.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tAVG FINAL\tPROFITABLE\tRUINED\tMEAN ROI\tWORST DRAWDOWN")
	for _, row := range cmp.Rows {
		fmt.Fprintf(w, "%v\t%.2f\t%.1f%%\t%.1f%%\t%.2f%%\t%.2f\n",
			row.Strategy, row.AvgFinalBalance, row.ProfitablePct, row.RuinPct, row.MeanROI, row.WorstDrawdown)
	}
	w.Flush()
}

func printResult(name string, res *runner.Result) {
	req, odds, s := res.Request, res.Odds, res.Summary

	fmt.Println("")
	fmt.Println("========================================")
	fmt.Printf("   🎰 %s: %v\n", name, req.Strategy)
	fmt.Println("========================================")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE\tNOTE")
	fmt.Fprintln(w, "------\t-----\t----")
	fmt.Fprintf(w, "Success probability\t%.2f%%\t1 in %d at %.2fx\n", odds.SuccessProbability*100, odds.OneIn, odds.Multiplier)
	fmt.Fprintf(w, "Expected value\t%.4f\tper round of %.2f\n", odds.ExpectedValue, req.Bet)
	fmt.Fprintf(w, "House edge\t%.2f%%\tRTP %.2f%%\n", odds.HouseEdge, odds.ReturnToPlayer)
	fmt.Fprintf(w, "Kelly stake\t%.2f\t%.0f%% of full Kelly (%.4f)\n", odds.KellyStake, req.KellyPercent, odds.KellyFraction)
	fmt.Fprintf(w, "Simulations\t%d\t%d rounds total\n", s.Simulations, s.TotalRounds)
	fmt.Fprintf(w, "Mean final balance\t%.2f\tstddev %.2f\n", s.MeanBalance, s.StdDevBalance)
	fmt.Fprintf(w, "Median final balance\t%.2f\tp5 %.2f / p95 %.2f\n", s.MedianBalance, s.P5Balance, s.P95Balance)
	fmt.Fprintf(w, "Best / worst run\t%.2f / %.2f\t\n", s.BestRun, s.WorstRun)
	fmt.Fprintf(w, "Mean net profit\t%.2f\tmean ROI %.2f%%\n", s.MeanNetProfit, s.MeanROI)
	fmt.Fprintf(w, "Ended with profit\t%.1f%%\tloss %.1f%%\n", s.ProfitPct, s.LossPct)
	fmt.Fprintf(w, "Ruined\t%.1f%%\t\n", s.RuinPct)
	fmt.Fprintf(w, "Worst drawdown\t%.2f\t\n", s.WorstDrawdown)
	w.Flush()

	fmt.Printf("\nSeed: %s\nCommitment: %s\n", res.Seed, res.Commitment)
}

func printTable(edge, bet float64) {
	fmt.Printf("\nProbability table at %.2f%% house edge, bet %.2f\n\n", game.ClampHouseEdge(edge), bet)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MULTIPLIER\tSUCCESS\t1 IN\tPAYOUT")
	for _, row := range game.ProbabilityTable(edge, nil, bet) {
		fmt.Fprintf(w, "%gx\t%.3f%%\t%d\t%.2f\n", row.Multiplier, row.SuccessProbability*100, row.OneIn, row.Payout)
	}
	w.Flush()
}

// runFairness draws n crash points and checks them against the model.
func runFairness(edge float64, n int, seed string) {
	if seed == "" {
		seed = "fairness"
	}
	rng := game.NewSeededRNG(seed)

	points := make([]float64, n)
	for i := range points {
		points[i] = game.SampleCrashPoint(rng, edge)
	}

	cal, err := report.Calibrate(points, edge, nil)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Printf("\nDrew %d crash points at %.2f%% edge (fitted edge %.3f%%)\n\n", n, cal.HouseEdge, cal.FittedHouseEdge)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MULTIPLIER\tOBSERVED\tMODEL\tDIFF")
	for _, row := range cal.Rows {
		fmt.Fprintf(w, "%gx\t%.4f\t%.4f\t%+.4f\n", row.Multiplier, row.Observed, row.Model, row.Diff)
	}
	w.Flush()
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
