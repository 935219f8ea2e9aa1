package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd runs the WebSocket server
type ServeCmd struct {
	Addr string `help:"Listen address, host:port (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	logger, err := g.newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}
	seed, rng := g.rng(logger)

	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}

	sourceName := cfg.Table.Source
	s := server.NewServer(logger, rng,
		server.WithConfig(server.Config{
			Balance:    cfg.Table.StartingChips,
			ChipValues: cfg.Table.ChipValues,
			ResetDelay: cfg.ResetDelay(),
		}),
		server.WithSourceFactory(func(rng *rand.Rand) game.CardSource {
			// Validated by loadConfig
			source, _ := deck.NewSource(sourceName, rng)
			return source
		}),
	)

	logger.Info("Starting blackjack server",
		"address", addr,
		"seed", seed,
		"starting_chips", cfg.Table.StartingChips,
		"source", sourceName,
		"reset_delay", cfg.ResetDelay())

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	if err := s.Serve(ctx, addr); err != nil {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}
