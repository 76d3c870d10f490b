// Package salesprep provides read access to prepared retail sales panels
// and their rolling train/test splits, for model-training code consuming
// the artifacts written by the sales-prep pipeline.
package salesprep

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// Row is one persisted panel observation. Logmove is nil for rows
// inserted during densification; Measures carries the remaining raw
// dataset columns.
type Row struct {
	Store      int64              `parquet:"store"`
	Brand      int64              `parquet:"brand"`
	Week       int32              `parquet:"week"`
	Year       int32              `parquet:"year"`
	WeekOfYear int32              `parquet:"week_of_year"`
	Logmove    *float64           `parquet:"logmove,optional"`
	Measures   map[string]float64 `parquet:"measures"`
}

// Split is one train/test pair, identified by its position in the rolling
// sequence. Splits are consumed in Index order for walk-forward
// evaluation.
type Split struct {
	Index int
	Train []Row
	Test  []Row
}

// Client reads prepared artifacts from a sales-prep data directory.
type Client struct {
	dataDir string
}

// NewClient creates a Client rooted at the pipeline's data directory.
func NewClient(dataDir string) *Client {
	return &Client{dataDir: dataDir}
}

// Panel returns all rows of the densified panel in stored order.
func (c *Client) Panel() ([]Row, error) {
	return parquet.ReadFile[Row](filepath.Join(c.dataDir, "panel", "panel.parquet"))
}

// Split returns one train/test pair by index.
func (c *Client) Split(index int) (*Split, error) {
	dir := filepath.Join(c.dataDir, "splits")

	train, err := parquet.ReadFile[Row](filepath.Join(dir, fmt.Sprintf("train_%02d.parquet", index)))
	if err != nil {
		return nil, fmt.Errorf("reading train split %d: %w", index, err)
	}
	test, err := parquet.ReadFile[Row](filepath.Join(dir, fmt.Sprintf("test_%02d.parquet", index)))
	if err != nil {
		return nil, fmt.Errorf("reading test split %d: %w", index, err)
	}
	return &Split{Index: index, Train: train, Test: test}, nil
}

// Splits returns all persisted train/test pairs in rolling order.
func (c *Client) Splits() ([]Split, error) {
	indexes, err := c.indexes()
	if err != nil {
		return nil, err
	}

	splits := make([]Split, 0, len(indexes))
	for _, idx := range indexes {
		sp, err := c.Split(idx)
		if err != nil {
			return nil, err
		}
		splits = append(splits, *sp)
	}
	return splits, nil
}

func (c *Client) indexes() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(c.dataDir, "splits"))
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
