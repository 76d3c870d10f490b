package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"salesprep/internal/domain"
	"salesprep/internal/panel"
	"salesprep/internal/split"
)

// Compile-time interface checks.
var _ PanelStore = (*ParquetStore)(nil)
var _ SplitStore = (*ParquetStore)(nil)

// ParquetStore implements PanelStore and SplitStore using Parquet files on
// disk under:
//
//	<DataDir>/panel/panel.parquet
//	<DataDir>/splits/train_<NN>.parquet
//	<DataDir>/splits/test_<NN>.parquet
type ParquetStore struct {
	DataDir string

	start time.Time // calendar date of week offset 0
}

// NewParquetStore creates a ParquetStore rooted at the given data
// directory. start maps week offsets to the year-week columns of the
// on-disk schema.
func NewParquetStore(dataDir string, start time.Time) *ParquetStore {
	return &ParquetStore{DataDir: dataDir, start: start}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// ObservationRecord is the Parquet schema for panel and split rows. Week
// is the raw integer offset; Year and WeekOfYear are the canonical time
// index derived from it. Logmove is absent for densification-inserted
// rows.
type ObservationRecord struct {
	Store      int64              `parquet:"store"`
	Brand      int64              `parquet:"brand"`
	Week       int32              `parquet:"week"`
	Year       int32              `parquet:"year"`
	WeekOfYear int32              `parquet:"week_of_year"`
	Logmove    *float64           `parquet:"logmove,optional"`
	Measures   map[string]float64 `parquet:"measures"`
}

func (s *ParquetStore) toRecord(o domain.Observation) ObservationRecord {
	yw := domain.WeekIndex(s.start, o.Week)
	return ObservationRecord{
		Store:      int64(o.Store),
		Brand:      int64(o.Brand),
		Week:       int32(o.Week),
		Year:       int32(yw.Year),
		WeekOfYear: int32(yw.Week),
		Logmove:    o.Logmove,
		Measures:   o.Measures,
	}
}

func fromRecord(r ObservationRecord) domain.Observation {
	return domain.Observation{
		Store:    int(r.Store),
		Brand:    int(r.Brand),
		Week:     int(r.Week),
		Logmove:  r.Logmove,
		Measures: r.Measures,
	}
}

func (s *ParquetStore) toRecords(obs []domain.Observation) []ObservationRecord {
	records := make([]ObservationRecord, len(obs))
	for i, o := range obs {
		records[i] = s.toRecord(o)
	}
	return records
}

func fromRecords(records []ObservationRecord) []domain.Observation {
	obs := make([]domain.Observation, len(records))
	for i, r := range records {
		obs[i] = fromRecord(r)
	}
	return obs
}

// ---------------------------------------------------------------------------
// PanelStore implementation
// ---------------------------------------------------------------------------

// WritePanel persists the full densified panel.
func (s *ParquetStore) WritePanel(_ context.Context, p *panel.Panel) error {
	if err := writeParquetFile(s.panelPath(), s.toRecords(p.Observations())); err != nil {
		return fmt.Errorf("writing panel: %w", err)
	}
	return nil
}

// ReadPanel returns all persisted panel rows in stored order.
func (s *ParquetStore) ReadPanel(_ context.Context) ([]domain.Observation, error) {
	records, err := readParquetFile[ObservationRecord](s.panelPath())
	if err != nil {
		return nil, fmt.Errorf("reading panel: %w", err)
	}
	return fromRecords(records), nil
}

// ---------------------------------------------------------------------------
// SplitStore implementation
// ---------------------------------------------------------------------------

// WriteSplits persists every split as a train/test pair of Parquet files.
// Empty windows still produce a file, so the pair sequence stays complete
// for downstream consumers.
func (s *ParquetStore) WriteSplits(_ context.Context, splits []split.Split) error {
	for _, sp := range splits {
		if err := writeParquetFile(s.splitPath("train", sp.Index), s.toRecords(sp.Train)); err != nil {
			return fmt.Errorf("writing train split %d: %w", sp.Index, err)
		}
		if err := writeParquetFile(s.splitPath("test", sp.Index), s.toRecords(sp.Test)); err != nil {
			return fmt.Errorf("writing test split %d: %w", sp.Index, err)
		}
	}
	return nil
}

// ReadSplit returns the train and test rows for one split index.
func (s *ParquetStore) ReadSplit(_ context.Context, index int) ([]domain.Observation, []domain.Observation, error) {
	trainRecords, err := readParquetFile[ObservationRecord](s.splitPath("train", index))
	if err != nil {
		return nil, nil, fmt.Errorf("reading train split %d: %w", index, err)
	}
	testRecords, err := readParquetFile[ObservationRecord](s.splitPath("test", index))
	if err != nil {
		return nil, nil, fmt.Errorf("reading test split %d: %w", index, err)
	}
	return fromRecords(trainRecords), fromRecords(testRecords), nil
}

// ListSplits returns the persisted split indexes in ascending order.
func (s *ParquetStore) ListSplits(_ context.Context) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, "splits"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var indexes []int
	for _, e := range entries {
		var idx int
		if _, err := fmt.Sscanf(e.Name(), "train_%d.parquet", &idx); err == nil {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	return indexes, nil
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func (s *ParquetStore) panelPath() string {
	return filepath.Join(s.DataDir, "panel", "panel.parquet")
}

func (s *ParquetStore) splitPath(kind string, index int) string {
	return filepath.Join(s.DataDir, "splits", fmt.Sprintf("%s_%02d.parquet", kind, index))
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
