// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// Config holds every knob the bot uses. Defaults live in the struct tags and
// act as the in-source constants; each one can be overridden through the
// environment (hydrated from a local .env file by loadConfig, so no shell
// exports are required).
//
// Typical flow (see main.go):
//   cfg, err := loadConfig()
package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config holds all runtime knobs for the one-shot dip buy.
type Config struct {
	// Trading target
	ProductID   string          `envconfig:"PRODUCT_ID" default:"BTC-USD"`
	TargetPrice decimal.Decimal `envconfig:"TARGET_PRICE" default:"90000"` // buy when price <= this
	USDToSpend  decimal.Decimal `envconfig:"USD_TO_SPEND" default:"100"`   // quote outlay for the single order

	// Loop control
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"10s"` // cadence between price checks

	// Safety
	DryRun bool `envconfig:"DRY_RUN" default:"false"` // simulate the order, never touch the exchange

	// Ops
	Port        int           `envconfig:"PORT" default:"8080"`
	APIBase     string        `envconfig:"COINBASE_API_BASE" default:"https://api.coinbase.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

// loadConfig hydrates the process env from a local .env file (if present)
// and builds a validated Config.
func loadConfig() (Config, error) {
	// Missing .env is fine; production sets real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ProductID == "" {
		return fmt.Errorf("config: PRODUCT_ID must not be empty")
	}
	if !c.TargetPrice.IsPositive() {
		return fmt.Errorf("config: TARGET_PRICE must be > 0, got %s", c.TargetPrice)
	}
	if !c.USDToSpend.IsPositive() {
		return fmt.Errorf("config: USD_TO_SPEND must be > 0, got %s", c.USDToSpend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: POLL_INTERVAL must be > 0, got %s", c.PollInterval)
	}
	return nil
}
