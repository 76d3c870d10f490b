// Package store persists prepared panels and train/test splits for
// downstream model-training code, and records run metadata for auditing.
package store

import (
	"context"
	"time"

	"salesprep/internal/domain"
	"salesprep/internal/panel"
	"salesprep/internal/split"
)

// PanelStore persists and retrieves the densified panel.
type PanelStore interface {
	// WritePanel persists the full panel.
	WritePanel(ctx context.Context, p *panel.Panel) error

	// ReadPanel returns all persisted panel rows in stored order.
	ReadPanel(ctx context.Context) ([]domain.Observation, error)
}

// SplitStore persists and retrieves the ordered train/test split pairs.
type SplitStore interface {
	// WriteSplits persists all splits, one train/test artifact pair per
	// split index.
	WriteSplits(ctx context.Context, splits []split.Split) error

	// ReadSplit returns the train and test rows for one split index.
	ReadSplit(ctx context.Context, index int) (train, test []domain.Observation, err error)

	// ListSplits returns the persisted split indexes in ascending order.
	ListSplits(ctx context.Context) ([]int, error)
}

// Run is one recorded pipeline invocation.
type Run struct {
	ID        int64
	StartedAt time.Time
	NSplits   int
	Horizon   int
	Gap       int
	FirstWeek int
	LastWeek  int
	StartDate string
	PanelRows int
}

// SplitInfo is the recorded boundary and row-count metadata of one split.
type SplitInfo struct {
	Index      int
	TrainStart int
	TrainEnd   int
	TestStart  int
	TestEnd    int
	TrainRows  int
	TestRows   int
}

// RunStore records pipeline runs and their split boundaries.
type RunStore interface {
	// RecordRun inserts a run record and returns its ID.
	RecordRun(ctx context.Context, run Run) (int64, error)

	// RecordSplits inserts the split metadata rows for a run.
	RecordSplits(ctx context.Context, runID int64, splits []split.Split) error

	// LatestRun returns the most recent run and its splits, or a nil run
	// if none has been recorded.
	LatestRun(ctx context.Context) (*Run, []SplitInfo, error)
}
