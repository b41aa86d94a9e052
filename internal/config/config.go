// Package config loads the order demo's settings from the environment.
//
// Values come from LOGTRACE_* environment variables, optionally pre-loaded
// from a .env file. Command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/zoobzio/logtrace"
)

// Strategy selects the trace engine.
type Strategy string

// Engine strategies.
const (
	StrategyContext Strategy = "context"
	StrategyField   Strategy = "field"
)

// Environment variable names.
const (
	EnvAddr           = "LOGTRACE_ADDR"
	EnvStrategy       = "LOGTRACE_STRATEGY"
	EnvLogFormat      = "LOGTRACE_LOG_FORMAT"
	EnvVerbosity      = "LOGTRACE_VERBOSITY"
	EnvSaveDelay      = "LOGTRACE_SAVE_DELAY"
	EnvCollectorLimit = "LOGTRACE_COLLECTOR_LIMIT"
)

// Config holds the demo configuration.
type Config struct {
	Addr           string
	Strategy       Strategy
	LogFormat      string
	Verbosity      int
	SaveDelay      time.Duration
	CollectorLimit int
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Strategy:       StrategyContext,
		LogFormat:      "console",
		SaveDelay:      time.Second,
		CollectorLimit: 1000,
	}
}

// Load reads the configuration from the environment. When envFile is set
// it is loaded first; variables already present in the environment win.
// A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	def := Default()
	cfg := Config{
		Addr:           getEnv(EnvAddr, def.Addr),
		Strategy:       Strategy(getEnv(EnvStrategy, string(def.Strategy))),
		LogFormat:      getEnv(EnvLogFormat, def.LogFormat),
		Verbosity:      parseInt(getEnv(EnvVerbosity, ""), def.Verbosity),
		SaveDelay:      parseDuration(getEnv(EnvSaveDelay, ""), def.SaveDelay),
		CollectorLimit: parseInt(getEnv(EnvCollectorLimit, ""), def.CollectorLimit),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyContext, StrategyField:
	default:
		return fmt.Errorf("unknown strategy %q, want %q or %q", c.Strategy, StrategyContext, StrategyField)
	}
	if c.SaveDelay < 0 {
		return fmt.Errorf("save delay must not be negative, got %s", c.SaveDelay)
	}
	if c.CollectorLimit < 1 {
		return fmt.Errorf("collector limit must be positive, got %d", c.CollectorLimit)
	}
	return nil
}

// Tracer is a trace engine that also accepts entry handlers.
type Tracer interface {
	logtrace.LogTrace
	OnEntry(handler logtrace.EntryHandler) uint64
	Close()
}

// NewTracer builds the engine selected by c.Strategy.
func (c Config) NewTracer(log logr.Logger) (Tracer, error) {
	switch c.Strategy {
	case StrategyContext:
		return logtrace.NewContextLogTrace(log), nil
	case StrategyField:
		log.Info("using shared-field trace strategy; concurrent requests will corrupt each other's trace")
		return logtrace.NewFieldLogTrace(log), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", c.Strategy)
	}
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt parses an integer with a default fallback.
func parseInt(s string, fallback int) int {
	if value, err := strconv.Atoi(s); err == nil {
		return value
	}
	return fallback
}

// parseDuration parses a duration with a default fallback.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if duration, err := time.ParseDuration(s); err == nil {
		return duration
	}
	return fallback
}
