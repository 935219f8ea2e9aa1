package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/deck"
)

// Config represents the complete blackjack configuration
type Config struct {
	Table  TableSettings  `hcl:"table,block"`
	Server ServerSettings `hcl:"server,block"`
	Log    LogSettings    `hcl:"log,block"`
}

// TableSettings controls chips, the card source and presentation timing
type TableSettings struct {
	StartingChips int    `hcl:"starting_chips,optional"`
	ChipValues    []int  `hcl:"chip_values,optional"`
	ResetDelayMs  int    `hcl:"reset_delay_ms,optional"`
	Source        string `hcl:"source,optional"`
}

// ServerSettings contains websocket server configuration
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// Card source names accepted in table.source.
const (
	SourceInfinite = deck.SourceInfinite
	SourceShoe     = deck.SourceShoe
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			StartingChips: 2000,
			ChipValues:    []int{1, 10, 100, 500},
			ResetDelayMs:  3000,
			Source:        SourceInfinite,
		},
		Server: ServerSettings{
			Address: "localhost",
			Port:    8080,
		},
		Log: LogSettings{
			Level: "info",
			File:  "blackjack.log",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults, and missing attributes fall back to their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = defaults.Table.StartingChips
	}
	if len(c.Table.ChipValues) == 0 {
		c.Table.ChipValues = defaults.Table.ChipValues
	}
	if c.Table.ResetDelayMs == 0 {
		c.Table.ResetDelayMs = defaults.Table.ResetDelayMs
	}
	if c.Table.Source == "" {
		c.Table.Source = defaults.Table.Source
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive")
	}
	if len(c.Table.ChipValues) == 0 {
		return fmt.Errorf("at least one chip value must be configured")
	}
	for _, v := range c.Table.ChipValues {
		if v <= 0 {
			return fmt.Errorf("invalid chip value: %d", v)
		}
	}
	if c.Table.ResetDelayMs < 0 {
		return fmt.Errorf("reset delay cannot be negative")
	}
	if c.Table.Source != SourceInfinite && c.Table.Source != SourceShoe {
		return fmt.Errorf("invalid card source: %s", c.Table.Source)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}

// ResetDelay returns the pause between settlement and the next betting phase
func (c *Config) ResetDelay() time.Duration {
	return time.Duration(c.Table.ResetDelayMs) * time.Millisecond
}

// ServerAddress returns the full server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
