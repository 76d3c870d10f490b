package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"salesprep/internal/config"
	"salesprep/internal/store"
)

// sales-splits prints a summary of the most recent prepared run: the
// recorded split boundaries from the run database and the row counts of
// the persisted Parquet artifacts.
func main() {
	fromFiles := flag.Bool("files", false, "summarize from the Parquet artifacts instead of the run database")
	flag.Parse()

	cfgPath := "config/salesprep.yaml"
	if p := os.Getenv("SALESPREP_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if *fromFiles || cfg.Storage.SQLitePath == "" {
		if err := summarizeFiles(ctx, cfg); err != nil {
			log.Fatalf("summarizing artifacts: %v", err)
		}
		return
	}
	if err := summarizeRun(ctx, cfg); err != nil {
		log.Fatalf("summarizing run: %v", err)
	}
}

func summarizeRun(ctx context.Context, cfg *config.Config) error {
	rstore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer rstore.Close()

	run, infos, err := rstore.LatestRun(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("run %d  started %s  panel rows %d\n", run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.PanelRows)
	fmt.Printf("n_splits=%d horizon=%d gap=%d weeks=[%d, %d] start_date=%s\n\n",
		run.NSplits, run.Horizon, run.Gap, run.FirstWeek, run.LastWeek, run.StartDate)

	fmt.Println("split  train window   test window    train rows  test rows")
	for _, si := range infos {
		fmt.Printf("%5d  [%d, %d]     [%d, %d]     %10d  %9d\n",
			si.Index, si.TrainStart, si.TrainEnd, si.TestStart, si.TestEnd, si.TrainRows, si.TestRows)
	}
	return nil
}

func summarizeFiles(ctx context.Context, cfg *config.Config) error {
	start, err := cfg.Split.StartTime()
	if err != nil {
		return err
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir, start)
	indexes, err := pstore.ListSplits(ctx)
	if err != nil {
		return err
	}
	if len(indexes) == 0 {
		fmt.Println("no persisted splits")
		return nil
	}

	fmt.Println("split  train rows  test rows")
	for _, idx := range indexes {
		train, test, err := pstore.ReadSplit(ctx, idx)
		if err != nil {
			return err
		}
		fmt.Printf("%5d  %10d  %9d\n", idx, len(train), len(test))
	}
	return nil
}
