// Package config reads process settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"bridgeplay/agent"
	"bridgeplay/game"
)

// Config holds the settings shared by the commands. Flags override it.
type Config struct {
	Port     string `env:"BRIDGE_PORT,default=8080"`
	Contract int    `env:"BRIDGE_CONTRACT,default=7"`
	Lineup   string `env:"BRIDGE_LINEUP,default=rule"`
	Games    int    `env:"BRIDGE_GAMES,default=500"`
	MaxGames int    `env:"BRIDGE_MAX_GAMES,default=100000"`
	Seed     int64  `env:"BRIDGE_SEED,default=0"`
	Workers  int    `env:"BRIDGE_WORKERS,default=4"`
	LeadRule string `env:"BRIDGE_LEAD_RULE,default=fixedOrder"`
}

// Load reads .env files (missing files are fine) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the game depends on
func (c Config) Validate() error {
	if err := game.ValidateContract(c.Contract); err != nil {
		return err
	}
	if _, err := agent.ParseLineup(c.Lineup); err != nil {
		return err
	}
	if _, err := c.ParsedLeadRule(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// ParsedLeadRule maps the lead rule name onto game.LeadRule
func (c Config) ParsedLeadRule() (game.LeadRule, error) {
	switch c.LeadRule {
	case "", game.FixedOrder.String():
		return game.FixedOrder, nil
	case game.WinnerLeads.String():
		return game.WinnerLeads, nil
	default:
		return 0, fmt.Errorf("unknown lead rule %q", c.LeadRule)
	}
}
