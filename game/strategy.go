package game

import (
	"fmt"
	"math"
	"strings"
)

// Strategy is a betting progression. The set is closed.
type Strategy int

const (
	FixedCashout Strategy = iota
	Martingale
	Fibonacci
	DAlembert
)

var strategyNames = [...]string{
	FixedCashout: "Fixed Cash-out",
	Martingale:   "Martingale",
	Fibonacci:    "Fibonacci",
	DAlembert:    "D'Alembert",
}

// Keys are names lowercased with spaces, dashes, underscores and quotes removed.
var strategyAliases = map[string]Strategy{
	"fixed":        FixedCashout,
	"fixedcashout": FixedCashout,
	"martingale":   Martingale,
	"fibonacci":    Fibonacci,
	"fib":          Fibonacci,
	"dalembert":    DAlembert,
}

var fibonacciUnits = [...]float64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{FixedCashout, Martingale, Fibonacci, DAlembert}
}

func (s Strategy) Valid() bool {
	return s >= FixedCashout && s <= DAlembert
}

func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// ParseStrategy accepts display names ("Fixed Cash-out", "D'Alembert") as
// well as loose spellings such as "fixed_cashout" or "dalembert".
func ParseStrategy(name string) (Strategy, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\'', '’':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))

	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidParameter, name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: unknown strategy %d", ErrInvalidParameter, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// NextBet sizes the bet for round (0-based) given the wins so far.
//
// Every progression is driven by cumulative win and loss counts, not by the
// outcome of the previous round:
//
//	FixedCashout  base
//	Martingale    base on round 0, then base * 2^wins
//	Fibonacci     base * fib[wins mod 10]
//	DAlembert     base + (wins - losses) * base, floored at 10% of base
//
// The result is always within [0, bankroll].
func NextBet(strategy Strategy, baseBet, bankroll float64, wins, round int) float64 {
	if bankroll <= 0 || baseBet <= 0 {
		return 0
	}

	var bet float64
	switch strategy {
	case Martingale:
		if round == 0 {
			bet = baseBet
		} else {
			bet = math.Ldexp(baseBet, wins)
		}
	case Fibonacci:
		idx := wins % len(fibonacciUnits)
		if idx < 0 {
			idx = 0
		}
		bet = baseBet * fibonacciUnits[idx]
	case DAlembert:
		losses := round - wins
		adjustment := float64(wins-losses) * baseBet
		bet = math.Max(baseBet+adjustment, baseBet*0.1)
	default:
		bet = baseBet
	}

	return math.Max(0, math.Min(bet, bankroll))
}
