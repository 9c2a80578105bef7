package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	EngineSourceHTTP   = "HTTP"
	EngineSourceStatic = "STATIC"
)

type Config struct {
	Engine struct {
		Source        string        `yaml:"source" envconfig:"SOURCE"`
		BackendURL    string        `yaml:"backend_url" envconfig:"BACKEND_URL"`
		Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		RatePerSecond float64       `yaml:"rate_per_second" envconfig:"RATE_PER_SECOND"`
		Burst         int           `yaml:"burst" envconfig:"BURST"`
		RetryAttempts int           `yaml:"retry_attempts" envconfig:"RETRY_ATTEMPTS"`
		StaticDir     string        `yaml:"static_dir" envconfig:"STATIC_DIR"`
	} `yaml:"engine"`
	Analysis struct {
		DefaultMinDTE        int    `yaml:"default_min_dte" envconfig:"DEFAULT_MIN_DTE"`
		DefaultMaxDTE        int    `yaml:"default_max_dte" envconfig:"DEFAULT_MAX_DTE"`
		TopCount             int    `yaml:"top_count" envconfig:"TOP_COUNT"`
		DisplayLimit         int    `yaml:"display_limit" envconfig:"DISPLAY_LIMIT"`
		HistoryDir           string `yaml:"history_dir" envconfig:"HISTORY_DIR"`
		HistoryRetentionDays int    `yaml:"history_retention_days" envconfig:"HISTORY_RETENTION_DAYS"`
	} `yaml:"analysis"`
	Margin struct {
		SignedNetCost bool `yaml:"signed_net_cost" envconfig:"SIGNED_NET_COST"`
	} `yaml:"margin"`
	Server struct {
		Addr            string        `yaml:"addr" envconfig:"ADDR"`
		ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`
}

func (c *Config) Validate() error {
	if c.Engine.Source != EngineSourceHTTP && c.Engine.Source != EngineSourceStatic {
		return fmt.Errorf("invalid engine.source '%s': must be 'HTTP' or 'STATIC'", c.Engine.Source)
	}
	if c.Engine.Source == EngineSourceHTTP && c.Engine.BackendURL == "" {
		return errors.New("engine.backend_url cannot be empty when engine.source is HTTP")
	}
	if c.Engine.Source == EngineSourceStatic && c.Engine.StaticDir == "" {
		return errors.New("engine.static_dir cannot be empty when engine.source is STATIC")
	}
	if c.Engine.RatePerSecond < 0 {
		return fmt.Errorf("engine.rate_per_second must be >= 0, got %.2f", c.Engine.RatePerSecond)
	}
	if c.Engine.RatePerSecond > 0 && c.Engine.Burst < 1 {
		return fmt.Errorf("engine.burst must be >= 1 when rate limiting, got %d", c.Engine.Burst)
	}
	if c.Engine.RetryAttempts < 1 {
		return fmt.Errorf("engine.retry_attempts must be >= 1, got %d", c.Engine.RetryAttempts)
	}
	if c.Analysis.DefaultMinDTE < 0 || c.Analysis.DefaultMinDTE > c.Analysis.DefaultMaxDTE {
		return fmt.Errorf("analysis DTE defaults must satisfy 0 <= min <= max, got %d..%d",
			c.Analysis.DefaultMinDTE, c.Analysis.DefaultMaxDTE)
	}
	if c.Analysis.TopCount <= 0 || c.Analysis.TopCount > c.Analysis.DisplayLimit {
		return fmt.Errorf("analysis.top_count must be between 1 and display_limit (%d), got %d",
			c.Analysis.DisplayLimit, c.Analysis.TopCount)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Engine.Source = EngineSourceHTTP
	c.Engine.BackendURL = "http://localhost:8000"
	c.Engine.Timeout = 120 * time.Second
	c.Engine.Burst = 1
	c.Engine.RetryAttempts = 1
	c.Engine.StaticDir = "reports"
	c.Analysis.DefaultMinDTE = 100
	c.Analysis.DefaultMaxDTE = 500
	c.Analysis.TopCount = 5
	c.Analysis.DisplayLimit = 15
	c.Analysis.HistoryDir = "logs"
	c.Server.Addr = ":8080"
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 30 * time.Second
	c.deriveTimeouts()
	return &c
}

// deriveTimeouts fills values that depend on other settings once the file
// and environment have been applied.
func (c *Config) deriveTimeouts() {
	if c.Server.WriteTimeout == 0 {
		// an analysis can take as long as the engine timeout
		c.Server.WriteTimeout = c.Engine.Timeout + 15*time.Second
	}
}

// LoadConfig reads path over the defaults (a missing file keeps them), applies
// environment overrides named VEGAEDGE_<SECTION>_<KEY> (for example
// VEGAEDGE_ENGINE_BACKEND_URL), then validates. Keys present in the file
// win even when zero, so a 0..0 DTE window is expressible.
func LoadConfig(path string) (*Config, error) {
	c := *Default()
	c.Server.WriteTimeout = 0
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := envconfig.Process("VEGAEDGE", &c); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	c.deriveTimeouts()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
