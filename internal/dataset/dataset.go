// Package dataset supplies the raw sales observations: downloading the
// source CSV, caching it on disk, and parsing it into domain records.
package dataset

import (
	"context"
	"fmt"

	"salesprep/internal/domain"
)

// Provider is the interface for raw dataset sources.
type Provider interface {
	// Name returns the provider identifier.
	Name() string
	// Fetch returns all raw observations from the source.
	Fetch(ctx context.Context) ([]domain.Observation, error)
}

// SchemaError reports a raw dataset row or header that does not satisfy
// the required (store, brand, week) schema. It aborts the run before any
// densification is attempted.
type SchemaError struct {
	Line   int // 1-based line in the source file, 0 if unknown
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dataset schema error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("dataset schema error: %s", e.Reason)
}
