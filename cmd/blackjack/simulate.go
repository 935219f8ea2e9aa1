package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// SimulateCmd plays rounds automatically and reports the results
type SimulateCmd struct {
	Rounds   int    `default:"100000" help:"Number of rounds to simulate"`
	Workers  int    `help:"Parallel workers (default: number of CPUs)"`
	Bet      int    `default:"10" help:"Flat bet per round"`
	Balance  int    `help:"Starting chips per worker (overrides config)"`
	Strategy string `default:"basic" help:"Player strategy: basic, dealer or stand"`
	Source   string `help:"Card source: infinite or shoe (overrides config)"`
	Output   string `type:"path" help:"Also write the results as JSON to this file"`
}

// report is the JSON form of a simulation result
type report struct {
	Strategy  string         `json:"strategy"`
	Seed      int64          `json:"seed"`
	Rounds    int            `json:"rounds"`
	Outcomes  map[string]int `json:"outcomes"`
	Naturals  int            `json:"naturals"`
	NetChips  int            `json:"net_chips"`
	MeanBets  float64        `json:"mean_bets"`
	StdDev    float64        `json:"std_dev"`
	CI95      [2]float64     `json:"ci95"`
	Drawdown  int            `json:"max_drawdown"`
	Rebuys    int            `json:"rebuys"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

func newReport(res *simulator.Result) report {
	s := res.Stats
	lo, hi := s.ConfidenceInterval95()
	outcomes := make(map[string]int, len(s.Outcomes))
	for o, n := range s.Outcomes {
		outcomes[o.String()] = n
	}
	return report{
		Strategy:  res.Strategy,
		Seed:      res.Seed,
		Rounds:    s.Rounds,
		Outcomes:  outcomes,
		Naturals:  s.Naturals,
		NetChips:  s.SumNet,
		MeanBets:  s.Mean(),
		StdDev:    s.StdDev(),
		CI95:      [2]float64{lo, hi},
		Drawdown:  s.MaxDrawdown,
		Rebuys:    s.Rebuys,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	logger, err := g.newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}
	seed, _ := g.rng(logger)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	balance := cfg.Table.StartingChips
	if c.Balance > 0 {
		balance = c.Balance
	}
	source := cfg.Table.Source
	if c.Source != "" {
		source = c.Source
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	res, err := simulator.Run(ctx, simulator.Config{
		Rounds:   c.Rounds,
		Workers:  workers,
		Bet:      c.Bet,
		Balance:  balance,
		Strategy: c.Strategy,
		Source:   source,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Blackjack simulation: %s strategy", res.Strategy)))
	fmt.Println(formatResult(res))

	if c.Output != "" {
		if err := fileutil.WriteJSONAtomic(c.Output, newReport(res)); err != nil {
			return err
		}
		logger.Info("Wrote results", "file", c.Output)
	}
	return nil
}

func formatResult(res *simulator.Result) string {
	s := res.Stats
	lo, hi := s.ConfidenceInterval95()

	var b strings.Builder
	fmt.Fprintf(&b, "Rounds:     %d (seed %d, %s)\n", s.Rounds, res.Seed, res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "Wins:       %d (%.2f%%)\n", s.Wins(), 100*float64(s.Wins())/float64(s.Rounds))
	fmt.Fprintf(&b, "Losses:     %d (%.2f%%)\n", s.Losses(), 100*float64(s.Losses())/float64(s.Rounds))
	fmt.Fprintf(&b, "Pushes:     %d (%.2f%%)\n", s.Pushes(), 100*s.Rate(game.Push))
	for _, o := range []game.Outcome{game.PlayerBust, game.DealerBust, game.PlayerWin, game.DealerWin} {
		fmt.Fprintf(&b, "  %-12s %.2f%%\n", o.String()+":", 100*s.Rate(o))
	}
	fmt.Fprintf(&b, "Naturals:   %d\n", s.Naturals)
	fmt.Fprintf(&b, "Net chips:  %+d\n", s.SumNet)
	fmt.Fprintf(&b, "Per round:  %+.4f bets ± %.4f (95%% CI %+.4f to %+.4f)\n", s.Mean(), s.StdError(), lo, hi)
	fmt.Fprintf(&b, "Std dev:    %.4f bets\n", s.StdDev())
	fmt.Fprintf(&b, "Drawdown:   %d chips\n", s.MaxDrawdown)
	fmt.Fprintf(&b, "Rebuys:     %d", s.Rebuys)
	return b.String()
}
