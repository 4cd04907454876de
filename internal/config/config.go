package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// DefaultSQLitePath is where the sqlite store lives when STORE_DSN is unset
const DefaultSQLitePath = "data/labbench.db"

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Store struct {
		Type string `env:"STORE_TYPE" envDefault:"memory"`
		DSN  string `env:"STORE_DSN"`
	}
	Optimization struct {
		Iterations    int     `env:"OPT_ITERATIONS" envDefault:"30"`
		Seed          int64   `env:"OPT_SEED" envDefault:"0"`
		MaxIterations int     `env:"OPT_MAX_ITERATIONS" envDefault:"200"`
		CandidatePool int     `env:"OPT_CANDIDATE_POOL" envDefault:"600"`
		Kappa         float64 `env:"OPT_KAPPA" envDefault:"2.0"`
		CompareTrials int     `env:"OPT_COMPARE_TRIALS" envDefault:"10"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		} else {
			cfg.Logging.Level = "info"
		}
	}

	cfg.Store.Type = strings.ToLower(cfg.Store.Type)
	switch cfg.Store.Type {
	case StoreMemory:
	case StoreSQLite:
		if cfg.Store.DSN == "" {
			// Ensure the data directory exists
			if err := os.MkdirAll(filepath.Dir(DefaultSQLitePath), 0o755); err != nil {
				return nil, err
			}
			cfg.Store.DSN = "file:" + DefaultSQLitePath + "?_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_TYPE %q", cfg.Store.Type)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	o := c.Optimization
	switch {
	case o.Iterations <= 0:
		return fmt.Errorf("OPT_ITERATIONS must be positive, got %d", o.Iterations)
	case o.MaxIterations < o.Iterations:
		return fmt.Errorf("OPT_MAX_ITERATIONS (%d) is below OPT_ITERATIONS (%d)", o.MaxIterations, o.Iterations)
	case o.CandidatePool <= 0:
		return fmt.Errorf("OPT_CANDIDATE_POOL must be positive, got %d", o.CandidatePool)
	case o.Kappa <= 0:
		return fmt.Errorf("OPT_KAPPA must be positive, got %g", o.Kappa)
	case o.CompareTrials <= 0:
		return fmt.Errorf("OPT_COMPARE_TRIALS must be positive, got %d", o.CompareTrials)
	}
	return nil
}

// CLI holds the environment settings the labbench command seeds its flag
// defaults from. It shares variable names with Config.
type CLI struct {
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"warn"`
	Iterations    int     `env:"OPT_ITERATIONS" envDefault:"30"`
	Seed          int64   `env:"OPT_SEED" envDefault:"0"`
	CandidatePool int     `env:"OPT_CANDIDATE_POOL" envDefault:"600"`
	Kappa         float64 `env:"OPT_KAPPA" envDefault:"2.0"`
	CompareTrials int     `env:"OPT_COMPARE_TRIALS" envDefault:"10"`
}

// LoadCLI parses the CLI settings from the environment.
func LoadCLI() (*CLI, error) {
	c := &CLI{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}
