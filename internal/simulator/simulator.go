// Package simulator plays many blackjack rounds with an automated player
// and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Workers  int
	Bet      int
	Balance  int
	Strategy string
	Source   string // deck.SourceInfinite or deck.SourceShoe
	Seed     int64
	Logger   *log.Logger
}

// Result is the aggregate of a simulation run
type Result struct {
	Stats    *statistics.Statistics
	Strategy string
	Seed     int64
	Elapsed  time.Duration
}

// Run plays cfg.Rounds rounds split across cfg.Workers goroutines. Each
// worker has its own engine and an RNG derived from the seed, so a run is
// reproducible for a given seed and worker count.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("simulator")

	workers := min(cfg.Workers, cfg.Rounds)
	perWorker := cfg.Rounds / workers
	remainder := cfg.Rounds % workers

	// Derive worker seeds up front so results do not depend on scheduling.
	parent := randutil.New(cfg.Seed)
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = parent.Int64()
	}

	start := time.Now()
	results := make([]*statistics.Statistics, workers)
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}

		g.Go(func() error {
			player, err := bot.ByName(cfg.Strategy)
			if err != nil {
				return err
			}
			stats, err := runWorker(ctx, cfg, player, randutil.New(seeds[w]), rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = stats
			logger.Debug("Worker finished", "worker", w, "rounds", rounds, "net", stats.SumNet)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := statistics.New()
	for _, s := range results {
		total.Merge(s)
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	res := &Result{
		Stats:    total,
		Strategy: cfg.Strategy,
		Seed:     cfg.Seed,
		Elapsed:  time.Since(start),
	}
	logger.Info("Simulation complete",
		"rounds", total.Rounds,
		"strategy", cfg.Strategy,
		"mean", fmt.Sprintf("%.4f", total.Mean()),
		"elapsed", res.Elapsed)
	return res, nil
}

func (c Config) validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Bet <= 0 {
		return fmt.Errorf("bet must be positive")
	}
	if c.Balance < c.Bet {
		return fmt.Errorf("balance %d is smaller than the bet %d", c.Balance, c.Bet)
	}
	if _, err := bot.ByName(c.Strategy); err != nil {
		return err
	}
	if _, err := deck.NewSource(c.Source, randutil.New(0)); err != nil {
		return err
	}
	return nil
}

func runWorker(ctx context.Context, cfg Config, player bot.Player, rng *rand.Rand, rounds int) (*statistics.Statistics, error) {
	source, err := deck.NewSource(cfg.Source, rng)
	if err != nil {
		return nil, err
	}

	stats := statistics.New()
	engine := game.NewEngine(source, game.WithBalance(cfg.Balance))

	for i := 0; i < rounds; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if engine.Balance() < cfg.Bet {
			engine = game.NewEngine(source, game.WithBalance(cfg.Balance))
			stats.Rebuys++
		}

		result, err := PlayRound(engine, player, cfg.Bet)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		stats.Add(result)
	}
	return stats, nil
}

// PlayRound plays one complete round on an engine in the betting phase and
// leaves it ready for the next bet.
func PlayRound(e *game.Engine, player bot.Player, bet int) (statistics.RoundResult, error) {
	before := e.Balance()

	if err := e.PlaceBet(bet); err != nil {
		return statistics.RoundResult{}, err
	}
	if err := e.Deal(); err != nil {
		return statistics.RoundResult{}, err
	}

	for e.Phase() == game.PlayerTurn {
		var err error
		switch player.Decide(e.Snapshot()) {
		case bot.Hit:
			err = e.Hit()
		default:
			err = e.Stand()
		}
		if err != nil {
			return statistics.RoundResult{}, err
		}
	}

	s := e.Snapshot()
	result := statistics.RoundResult{
		Outcome:     s.Outcome,
		Bet:         bet,
		Net:         s.Balance - before,
		Natural:     s.PlayerNatural,
		PlayerCards: len(s.PlayerCards),
		DealerCards: len(s.DealerCards),
	}
	if err := e.ResetToBetting(); err != nil {
		return statistics.RoundResult{}, err
	}
	return result, nil
}
