package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/simulator"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	g := &Globals{Config: filepath.Join(dir, "missing.hcl")}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`
table {
  source = "eight-deck"
}
server {}
log {}
`), 0o644))
	g.Config = bad
	_, err = g.loadConfig()
	assert.ErrorContains(t, err, "invalid card source")
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger, err := (&Globals{}).newLogger(&buf, cfg)
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger, err = (&Globals{Debug: true}).newLogger(&buf, cfg)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	cfg.Log.Level = "chatty"
	_, err = (&Globals{}).newLogger(&buf, cfg)
	assert.Error(t, err)
}

func TestFormatResult(t *testing.T) {
	res, err := simulator.Run(context.Background(), simulator.Config{
		Rounds:   500,
		Workers:  2,
		Bet:      10,
		Balance:  1000,
		Strategy: "basic",
		Seed:     3,
	})
	require.NoError(t, err)

	out := formatResult(res)
	assert.Contains(t, out, "Rounds:     500 (seed 3")
	assert.Contains(t, out, "player_bust:")
	assert.Contains(t, out, "Rebuys:")
}

func TestSimulateWritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.json")
	seed := int64(11)
	cmd := &SimulateCmd{Rounds: 200, Workers: 2, Bet: 10, Strategy: "dealer", Output: out}
	require.NoError(t, cmd.Run(&Globals{Config: filepath.Join(t.TempDir(), "none.hcl"), Seed: &seed}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "dealer", r.Strategy)
	assert.Equal(t, int64(11), r.Seed)
	assert.Equal(t, 200, r.Rounds)

	total := 0
	for _, n := range r.Outcomes {
		total += n
	}
	assert.Equal(t, 200, total)
}
