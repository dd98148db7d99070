// FILE: internal/config/config.go
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cortex/internal/oracle"
)

// Config holds everything cortex-server needs at startup
type Config struct {
	APIHost     string
	APIPort     int
	Dev         bool
	StoragePath string // Empty disables persistence
	PIDPath     string
	PIDLock     bool
	Workers     int
	TurnLimit   time.Duration
	LogLevel    string
	Oracle      oracle.Config
}

// Addr is the listen address for the API server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// Load reads .env if present, then parses args with env-backed defaults
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return Parse(args)
}

// Parse parses command-line flags. Each flag defaults to its CORTEX_* env var.
func Parse(args []string) (*Config, error) {
	port, err := envInt("CORTEX_API_PORT", 8080)
	if err != nil {
		return nil, err
	}
	workers, err := envInt("CORTEX_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	oracleTimeout, err := envDuration("CORTEX_ORACLE_TIMEOUT", oracle.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	turnLimit, err := envDuration("CORTEX_TURN_LIMIT", 45*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	var provider string

	fs := flag.NewFlagSet("cortex-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.APIHost, "api-host", getEnv("CORTEX_API_HOST", "localhost"), "API server host")
	fs.IntVar(&cfg.APIPort, "api-port", port, "API server port")
	fs.BoolVar(&cfg.Dev, "dev", false, "Development mode (relaxed rate limits, console logs)")
	fs.StringVar(&cfg.StoragePath, "storage-path", getEnv("CORTEX_STORAGE_PATH", ""), "Path to SQLite database file (disables persistence if empty)")
	fs.StringVar(&cfg.PIDPath, "pid", "", "Optional path to write PID file")
	fs.BoolVar(&cfg.PIDLock, "pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	fs.IntVar(&cfg.Workers, "workers", workers, "Computer turn workers")
	fs.DurationVar(&cfg.TurnLimit, "turn-limit", turnLimit, "Upper bound on one computer turn")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&provider, "provider", getEnv("CORTEX_PROVIDER", "gemini"), "Oracle provider (gemini, openai)")
	fs.StringVar(&cfg.Oracle.APIKey, "api-key", getEnv("CORTEX_API_KEY", ""), "Oracle API key")
	fs.StringVar(&cfg.Oracle.BaseURL, "oracle-url", getEnv("CORTEX_ORACLE_URL", ""), "Oracle base URL override")
	fs.DurationVar(&cfg.Oracle.Timeout, "oracle-timeout", oracleTimeout, "Oracle request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.PIDLock && cfg.PIDPath == "" {
		return nil, fmt.Errorf("-pid-lock flag requires the -pid flag to be set")
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return nil, fmt.Errorf("invalid api port %d", cfg.APIPort)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	p, err := oracle.ParseProvider(provider)
	if err != nil {
		return nil, err
	}
	cfg.Oracle.Provider = p

	return cfg, nil
}

// SetupLogging configures the global zerolog logger
func SetupLogging(level string, dev bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	if dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
