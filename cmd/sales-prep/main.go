package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"salesprep/internal/config"
	"salesprep/internal/dataset"
	"salesprep/internal/panel"
	"salesprep/internal/split"
	"salesprep/internal/store"
	"salesprep/internal/util"
)

func main() {
	refresh := flag.Bool("refresh", false, "discard the cached raw dataset and download again")
	flag.Parse()

	cfgPath := "config/salesprep.yaml"
	if p := os.Getenv("SALESPREP_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Dual logger: stdout + /tmp log file.
	logFileName := fmt.Sprintf("/tmp/sales-prep-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.Create(logFileName)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	w := io.MultiWriter(os.Stdout, logFile)
	logger := util.NewLoggerTo(w, cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting sales-prep", "logFile", logFileName, "refresh", *refresh)
	if err := run(ctx, cfg, *refresh); err != nil {
		log.Fatalf("pipeline error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, refresh bool) error {
	settings, err := split.FromConfig(cfg.Split)
	if err != nil {
		return err
	}

	cachePath := cfg.Dataset.CacheFile
	if cachePath == "" {
		cachePath = "raw/sales.csv"
	}
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(cfg.Storage.DataDir, cachePath)
	}

	provider := dataset.NewHTTPProvider(cfg.Dataset.URL, cachePath)
	if refresh {
		if err := provider.Refresh(); err != nil {
			return fmt.Errorf("discarding dataset cache: %w", err)
		}
	}

	raw, err := provider.Fetch(ctx)
	if err != nil {
		return err
	}

	p, err := panel.Densify(raw, settings.StartDate)
	if err != nil {
		return err
	}
	minWeek, maxWeek := p.WeekRange()
	logger := slog.Default()
	logger.Info("densified panel",
		"rows", p.Len(),
		"stores", len(p.Stores()),
		"brands", len(p.Brands()),
		"weeks", fmt.Sprintf("[%d, %d]", minWeek, maxWeek),
	)

	splits, err := split.NewGenerator(settings).Generate(p)
	if err != nil {
		return err
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir, settings.StartDate)
	if err := pstore.WritePanel(ctx, p); err != nil {
		return err
	}
	if err := pstore.WriteSplits(ctx, splits); err != nil {
		return err
	}
	logger.Info("persisted artifacts", "dataDir", cfg.Storage.DataDir, "splits", len(splits))

	if cfg.Storage.SQLitePath != "" {
		rstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer rstore.Close()

		runID, err := rstore.RecordRun(ctx, store.Run{
			StartedAt: time.Now(),
			NSplits:   settings.NSplits,
			Horizon:   settings.Horizon,
			Gap:       settings.Gap,
			FirstWeek: settings.FirstWeek,
			LastWeek:  settings.LastWeek,
			StartDate: cfg.Split.StartDate,
			PanelRows: p.Len(),
		})
		if err != nil {
			return err
		}
		if err := rstore.RecordSplits(ctx, runID, splits); err != nil {
			return err
		}
		logger.Info("recorded run", "runID", runID, "db", cfg.Storage.SQLitePath)
	}

	return nil
}
