// Package domain defines the core data types of the salesprep pipeline:
// sales observations and the year-week time index they are ordered by.
package domain

// Observation is a single (store, brand, week) sales record. Week is an
// integer offset from the dataset's reference start date.
type Observation struct {
	Store int
	Brand int
	Week  int

	// Logmove is the log of unit sales, the forecast target. nil marks a
	// row inserted during densification, which carries no measurement.
	Logmove *float64

	// Measures holds the remaining numeric columns of the raw dataset
	// (price, deal, feat, profit, ...) keyed by lower-cased column name.
	// nil for densification-inserted rows. Values pass through the
	// pipeline unchanged.
	Measures map[string]float64
}

// HasData reports whether the observation carries any raw measurement, as
// opposed to being a gap row inserted by the densifier.
func (o Observation) HasData() bool {
	return o.Logmove != nil || len(o.Measures) > 0
}
