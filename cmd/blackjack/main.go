package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"Path to HCL config file (missing file uses defaults)"`
	Debug  bool   `env:"BLACKJACK_DEBUG" help:"Enable debug logging"`
	Seed   *int64 `env:"BLACKJACK_SEED" help:"Deterministic RNG seed (optional)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a built-in strategy and report statistics"`
	Serve    ServeCmd         `cmd:"" help:"Serve blackjack tables over WebSocket"`
	Bot      BotCmd           `cmd:"" help:"Play against a server with a built-in strategy"`
}

func main() {
	// BLACKJACK_* variables may come from a .env file
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against an automated dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
