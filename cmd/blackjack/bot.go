package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/client"
)

// BotCmd plays against a running server with a built-in strategy
type BotCmd struct {
	URL      string `default:"http://localhost:8080" help:"Server URL"`
	Strategy string `default:"basic" help:"Player strategy: basic, dealer or stand"`
	Bet      int    `default:"10" help:"Flat bet per round"`
	Rounds   int    `default:"100" help:"Rounds to play"`
}

func (c *BotCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, err := g.newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	player, err := bot.ByName(c.Strategy)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := client.Dial(dialCtx, c.URL, logger)
	dialCancel()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	stats, err := client.Play(ctx, conn, player, c.Bet, c.Rounds)
	if stats.Rounds > 0 {
		logger.Info("Bot finished",
			"strategy", c.Strategy,
			"rounds", stats.Rounds,
			"wins", stats.Wins(),
			"losses", stats.Losses(),
			"pushes", stats.Pushes(),
			"net", stats.SumNet,
			"mean", fmt.Sprintf("%.4f", stats.Mean()))
	}
	return err
}
