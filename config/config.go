// Package config loads the settings of the hlc HTTP server.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/etnz/hashledger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HLC"

// Config holds the server configuration.
type Config struct {
	Port         string
	LedgerFile   string
	Currency     string
	Scheme       hashledger.Scheme
	RateLimit    limiter.Rate
	AllowOrigins []string // "*" allows any origin
	IsProduction bool
}

// Load reads the configuration from HLC_* environment variables.
//
// The given .env files are loaded first, without overriding variables already
// set. With no file, an optional ".env" in the working directory is loaded.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// Attempt to load .env file, ignore error if it doesn't exist
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("could not load env files: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LEDGER_FILE", "ledger.jsonl")
	v.SetDefault("CURRENCY", hashledger.DefaultCurrency)
	v.SetDefault("SCHEME", hashledger.Framed.String())
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("ALLOW_ORIGINS", "*")
	v.SetDefault("PRODUCTION", false)
	v.AutomaticEnv()

	cfg := &Config{
		Port:         v.GetString("PORT"),
		LedgerFile:   v.GetString("LEDGER_FILE"),
		Currency:     strings.ToUpper(strings.TrimSpace(v.GetString("CURRENCY"))),
		IsProduction: v.GetBool("PRODUCTION"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: %s_PORT is empty. Defaulting to %s\n", EnvPrefix, cfg.Port)
	}
	if cfg.LedgerFile == "" {
		return nil, fmt.Errorf("%s_LEDGER_FILE must not be empty", EnvPrefix)
	}
	if cfg.Currency == "" {
		cfg.Currency = hashledger.DefaultCurrency
	}

	scheme, err := hashledger.ParseScheme(v.GetString("SCHEME"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_SCHEME: %w", EnvPrefix, err)
	}
	cfg.Scheme = scheme

	rate, err := limiter.NewRateFromFormatted(v.GetString("RATE_LIMIT"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_RATE_LIMIT %q (want e.g. 120-M): %w", EnvPrefix, v.GetString("RATE_LIMIT"), err)
	}
	cfg.RateLimit = rate

	for _, origin := range strings.Split(v.GetString("ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	return cfg, nil
}

// ChainOptions returns the options used to create a new chain.
func (c *Config) ChainOptions() []hashledger.Option {
	return []hashledger.Option{hashledger.WithCurrency(c.Currency), hashledger.WithScheme(c.Scheme)}
}
