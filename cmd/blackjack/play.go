package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive terminal table
type PlayCmd struct {
	Balance int    `help:"Starting chips (overrides config)"`
	Source  string `help:"Card source: infinite or shoe (overrides config)"`
	LogFile string `help:"Write logs to this file (overrides config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Balance > 0 {
		cfg.Table.StartingChips = c.Balance
	}
	if c.Source != "" {
		cfg.Table.Source = c.Source
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}

	// The table owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger, err := g.newLogger(logFile, cfg)
	if err != nil {
		return err
	}
	_, rng := g.rng(logger)

	source, err := deck.NewSource(cfg.Table.Source, rng)
	if err != nil {
		return err
	}

	sess := session.New(source,
		session.WithLogger(logger),
		session.WithBalance(cfg.Table.StartingChips),
		session.WithChipValues(cfg.Table.ChipValues),
		session.WithResetDelay(cfg.ResetDelay()),
	)
	defer sess.Close()

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting table", "balance", cfg.Table.StartingChips, "source", cfg.Table.Source)
	return tui.Run(ctx, sess, logger)
}
