package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by all configuration validation errors, so callers
// can detect them with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the salesprep pipeline.
type Config struct {
	Storage Storage     `yaml:"storage"`
	Dataset Dataset     `yaml:"dataset"`
	Split   SplitConfig `yaml:"split"`
	Logging Logging     `yaml:"logging"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Dataset points at the raw sales data source.
type Dataset struct {
	URL       string `yaml:"url"`
	CacheFile string `yaml:"cache_file"`
}

// SplitConfig holds the rolling train/test split parameters. Week bounds
// are integer offsets from StartDate; StartDate maps offset 0 to a real
// calendar date.
type SplitConfig struct {
	NSplits   int    `yaml:"n_splits"`
	Horizon   int    `yaml:"horizon"`
	Gap       int    `yaml:"gap"`
	FirstWeek int    `yaml:"first_week"`
	LastWeek  int    `yaml:"last_week"`
	StartDate string `yaml:"start_date"` // YYYY-MM-DD
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into
// a Config struct, and then applies environment variable overrides. The
// result is treated as read-only for the remainder of the run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("SALES_DATA_URL"); v != "" {
		cfg.Dataset.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// StartTime parses the configured start date.
func (s SplitConfig) StartTime() (time.Time, error) {
	t, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parsing start_date %q: %v", ErrInvalid, s.StartDate, err)
	}
	return t, nil
}

// Validate checks the split parameters for internal consistency. The
// window-bound check mirrors the split generator's arithmetic: the
// earliest rolling origin must leave room for the train window, and the
// latest test window must not run past last_week. No clamping is applied;
// inconsistent settings abort the run before any split is produced.
func (s SplitConfig) Validate() error {
	if s.NSplits <= 0 {
		return fmt.Errorf("%w: n_splits must be positive, got %d", ErrInvalid, s.NSplits)
	}
	if s.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalid, s.Horizon)
	}
	if s.Gap < 0 {
		return fmt.Errorf("%w: gap must be non-negative, got %d", ErrInvalid, s.Gap)
	}
	if s.FirstWeek > s.LastWeek {
		return fmt.Errorf("%w: first_week %d after last_week %d", ErrInvalid, s.FirstWeek, s.LastWeek)
	}
	if _, err := s.StartTime(); err != nil {
		return err
	}

	// t values run from earliest to last = last_week - horizon - gap + 1
	// with step horizon.
	last := s.LastWeek - s.Horizon - s.Gap + 1
	earliest := last - s.Horizon*(s.NSplits-1)
	if s.FirstWeek > earliest {
		return fmt.Errorf("%w: earliest train window [%d, %d] is empty; reduce n_splits, horizon, or gap",
			ErrInvalid, s.FirstWeek, earliest)
	}
	if last+s.Gap+s.Horizon-1 > s.LastWeek {
		return fmt.Errorf("%w: latest test window ends at %d past last_week %d",
			ErrInvalid, last+s.Gap+s.Horizon-1, s.LastWeek)
	}
	return nil
}

// Validate checks the whole configuration: storage paths, dataset source,
// and split parameters.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("%w: storage.data_dir is required", ErrInvalid)
	}
	if c.Dataset.URL == "" && c.Dataset.CacheFile == "" {
		return fmt.Errorf("%w: dataset.url or dataset.cache_file is required", ErrInvalid)
	}
	return c.Split.Validate()
}
