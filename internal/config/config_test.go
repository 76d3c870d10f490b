package config

import (
	"errors"
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Create a temporary YAML config file.
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/salesprep/data"
  sqlite_path: "/tmp/salesprep/salesprep.db"
dataset:
  url: "https://example.com/retail/yx.csv"
  cache_file: "raw/yx.csv"
split:
  n_splits: 10
  horizon: 2
  gap: 2
  first_week: 40
  last_week: 156
  start_date: "1989-09-14"
logging:
  level: "info"
  format: "json"
`)

	tmpFile, err := os.CreateTemp("", "salesprep-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")
	os.Unsetenv("SALES_DATA_URL")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Storage --
	if cfg.Storage.DataDir != "/tmp/salesprep/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/salesprep/data")
	}
	if cfg.Storage.SQLitePath != "/tmp/salesprep/salesprep.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/tmp/salesprep/salesprep.db")
	}

	// -- Dataset --
	if cfg.Dataset.URL != "https://example.com/retail/yx.csv" {
		t.Errorf("Dataset.URL = %q, want the configured URL", cfg.Dataset.URL)
	}
	if cfg.Dataset.CacheFile != "raw/yx.csv" {
		t.Errorf("Dataset.CacheFile = %q, want %q", cfg.Dataset.CacheFile, "raw/yx.csv")
	}

	// -- Split --
	if cfg.Split.NSplits != 10 {
		t.Errorf("Split.NSplits = %d, want 10", cfg.Split.NSplits)
	}
	if cfg.Split.Horizon != 2 || cfg.Split.Gap != 2 {
		t.Errorf("Split horizon/gap = %d/%d, want 2/2", cfg.Split.Horizon, cfg.Split.Gap)
	}
	if cfg.Split.FirstWeek != 40 || cfg.Split.LastWeek != 156 {
		t.Errorf("Split week range = [%d, %d], want [40, 156]", cfg.Split.FirstWeek, cfg.Split.LastWeek)
	}

	// -- Logging --
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() returned error for consistent config: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/salesprep/data"
dataset:
  url: "https://example.com/retail/yx.csv"
`)
	tmpFile, err := os.CreateTemp("", "salesprep-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	t.Setenv("DATA_DIR", "/override/data")
	t.Setenv("SALES_DATA_URL", "https://mirror.example.com/yx.csv")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Storage.DataDir != "/override/data" {
		t.Errorf("DATA_DIR override not applied: %q", cfg.Storage.DataDir)
	}
	if cfg.Dataset.URL != "https://mirror.example.com/yx.csv" {
		t.Errorf("SALES_DATA_URL override not applied: %q", cfg.Dataset.URL)
	}
}

func TestSplitConfigValidate(t *testing.T) {
	valid := SplitConfig{
		NSplits:   3,
		Horizon:   2,
		Gap:       2,
		FirstWeek: 40,
		LastWeek:  156,
		StartDate: "1989-09-14",
	}

	cases := []struct {
		name    string
		mutate  func(*SplitConfig)
		wantErr bool
	}{
		{"valid", func(*SplitConfig) {}, false},
		{"zero gap is valid", func(s *SplitConfig) { s.Gap = 0 }, false},
		{"negative gap", func(s *SplitConfig) { s.Gap = -1 }, true},
		{"zero horizon", func(s *SplitConfig) { s.Horizon = 0 }, true},
		{"zero splits", func(s *SplitConfig) { s.NSplits = 0 }, true},
		{"inverted week range", func(s *SplitConfig) { s.FirstWeek = 200 }, true},
		{"bad start date", func(s *SplitConfig) { s.StartDate = "Sept 14 1989" }, true},
		{"train window before data", func(s *SplitConfig) { s.NSplits = 60 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}
