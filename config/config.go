package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete simulation configuration
type Config struct {
	Account     AccountConfig      `json:"account" yaml:"account"`
	Trading     TradingConfig      `json:"trading" yaml:"trading"`
	Feed        FeedConfig         `json:"feed" yaml:"feed"`
	Journal     JournalConfig      `json:"journal" yaml:"journal"`
	Store       StoreConfig        `json:"store" yaml:"store"`
	Instruments []InstrumentConfig `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

// AccountConfig contains starting balances for each trading mode
type AccountConfig struct {
	SpotBalance   float64 `json:"spot_balance" yaml:"spot_balance"`
	MarginBalance float64 `json:"margin_balance" yaml:"margin_balance"`
}

// TradingConfig contains fee and margin parameters
type TradingConfig struct {
	Mode                 string  `json:"mode" yaml:"mode"` // "spot", "margin" or "futures"
	FeeRate              float64 `json:"fee_rate" yaml:"fee_rate"`
	LiquidationThreshold float64 `json:"liquidation_threshold" yaml:"liquidation_threshold"`
}

// FeedConfig contains price feed parameters
type FeedConfig struct {
	Interval   string `json:"interval" yaml:"interval"` // e.g., "5s", "1m"
	Seed       int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	SeedPoints int    `json:"seed_points" yaml:"seed_points"`
	HistoryCap int    `json:"history_cap" yaml:"history_cap"`
}

// ParseInterval converts the interval string to time.Duration
func (fc FeedConfig) ParseInterval() (time.Duration, error) {
	if fc.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(fc.Interval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "memory" or "sqlite"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// StoreConfig contains session persistence parameters
type StoreConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// InstrumentConfig overrides the built-in instrument catalog. An empty
// list keeps the defaults.
type InstrumentConfig struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Price     float64 `json:"price" yaml:"price"`
	Change24h float64 `json:"change_24h,omitempty" yaml:"change_24h,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.SpotBalance < 0 {
		return fmt.Errorf("account.spot_balance must not be negative")
	}
	if c.Account.MarginBalance < 0 {
		return fmt.Errorf("account.margin_balance must not be negative")
	}
	if c.Trading.Mode != "spot" && c.Trading.Mode != "margin" && c.Trading.Mode != "futures" {
		return fmt.Errorf("trading.mode must be 'spot', 'margin' or 'futures'")
	}
	if c.Trading.FeeRate < 0 || c.Trading.FeeRate >= 1 {
		return fmt.Errorf("trading.fee_rate must be in [0, 1)")
	}
	if c.Trading.LiquidationThreshold <= 0 || c.Trading.LiquidationThreshold >= 1 {
		return fmt.Errorf("trading.liquidation_threshold must be between 0 and 1")
	}
	if _, err := c.Feed.ParseInterval(); err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	if c.Feed.SeedPoints < 0 {
		return fmt.Errorf("feed.seed_points must not be negative")
	}
	if c.Feed.HistoryCap <= 0 {
		return fmt.Errorf("feed.history_cap must be positive")
	}
	if c.Journal.Type != "memory" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'memory' or 'sqlite'")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	for i, inst := range c.Instruments {
		if inst.Symbol == "" {
			return fmt.Errorf("instruments[%d]: symbol is required", i)
		}
		if inst.Price <= 0 {
			return fmt.Errorf("instruments[%d] (%s): price must be positive", i, inst.Symbol)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			SpotBalance:   20000000,
			MarginBalance: 1000000,
		},
		Trading: TradingConfig{
			Mode:                 "spot",
			FeeRate:              0.001,
			LiquidationThreshold: 0.1,
		},
		Feed: FeedConfig{
			Interval:   "5s",
			SeedPoints: 31,
			HistoryCap: 100,
		},
		Journal: JournalConfig{
			Type: "memory",
		},
		Store: StoreConfig{
			Path: "./cryptosim-state.json",
		},
	}
}
