// Package split cuts a densified panel into rolling train/test windows
// with an embargo gap for walk-forward cross-validation.
package split

import (
	"fmt"
	"log/slog"
	"time"

	"salesprep/internal/config"
	"salesprep/internal/domain"
	"salesprep/internal/panel"
)

// Settings are the rolling-split parameters, derived from the immutable
// run configuration.
type Settings struct {
	NSplits   int
	Horizon   int
	Gap       int
	FirstWeek int
	LastWeek  int
	StartDate time.Time
}

// FromConfig converts the validated configuration record into split
// settings.
func FromConfig(c config.SplitConfig) (Settings, error) {
	if err := c.Validate(); err != nil {
		return Settings{}, err
	}
	start, err := c.StartTime()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		NSplits:   c.NSplits,
		Horizon:   c.Horizon,
		Gap:       c.Gap,
		FirstWeek: c.FirstWeek,
		LastWeek:  c.LastWeek,
		StartDate: start,
	}, nil
}

// Split is one train/test pair. Train and Test are non-owning views over
// the shared panel; TrainEnd is the rolling origin t, so the train window
// covers [TrainStart, t] and the test window [t+Gap, t+Gap+Horizon-1].
type Split struct {
	Index      int
	TrainStart int
	TrainEnd   int
	TestStart  int
	TestEnd    int

	Train []domain.Observation
	Test  []domain.Observation
}

// TrainPeriods returns the rolling origins: NSplits week offsets in
// strictly increasing order, ending at LastWeek - Horizon - Gap + 1 and
// spaced by Horizon. Origins that would leave the earliest train window
// empty are a configuration error, not a clamping opportunity.
func TrainPeriods(s Settings) ([]int, error) {
	if s.NSplits <= 0 || s.Horizon <= 0 || s.Gap < 0 {
		return nil, fmt.Errorf("%w: n_splits=%d horizon=%d gap=%d", config.ErrInvalid, s.NSplits, s.Horizon, s.Gap)
	}

	last := s.LastWeek - s.Horizon - s.Gap + 1
	periods := make([]int, s.NSplits)
	for i := range periods {
		periods[i] = last - s.Horizon*(s.NSplits-1-i)
	}

	if s.FirstWeek > periods[0] {
		return nil, fmt.Errorf("%w: first train window [%d, %d] is empty", config.ErrInvalid, s.FirstWeek, periods[0])
	}
	if end := last + s.Gap + s.Horizon - 1; end > s.LastWeek {
		return nil, fmt.Errorf("%w: last test window ends at %d past last_week %d", config.ErrInvalid, end, s.LastWeek)
	}
	return periods, nil
}

// Generator slices a panel into rolling train/test splits.
type Generator struct {
	settings Settings
	log      *slog.Logger
}

// NewGenerator creates a Generator for the given settings.
func NewGenerator(s Settings) *Generator {
	return &Generator{
		settings: s,
		log:      slog.Default().With("component", "split"),
	}
}

// Generate returns exactly NSplits splits over the panel, in rolling-origin
// order. For each split the train and test windows are disjoint and
// separated by exactly Gap embargo weeks; with Gap == 0 the test window
// starts immediately after the train window. A window that selects zero
// rows (a panel truncated below last_week for some keys) is logged as a
// warning and kept — downstream consumers must tolerate empty subsets.
func (g *Generator) Generate(p *panel.Panel) ([]Split, error) {
	s := g.settings

	periods, err := TrainPeriods(s)
	if err != nil {
		return nil, err
	}

	splits := make([]Split, 0, len(periods))
	for i, t := range periods {
		sp := Split{
			Index:      i,
			TrainStart: s.FirstWeek,
			TrainEnd:   t,
			TestStart:  t + s.Gap,
			TestEnd:    t + s.Gap + s.Horizon - 1,
		}

		// Window bounds are week offsets; the panel filters on the
		// canonical year-week index derived from the same start date.
		sp.Train = p.Window(
			domain.WeekIndex(s.StartDate, sp.TrainStart),
			domain.WeekIndex(s.StartDate, sp.TrainEnd),
		)
		sp.Test = p.Window(
			domain.WeekIndex(s.StartDate, sp.TestStart),
			domain.WeekIndex(s.StartDate, sp.TestEnd),
		)

		if len(sp.Train) == 0 {
			g.log.Warn("empty train window", "split", i, "firstWeek", s.FirstWeek, "trainEnd", sp.TrainEnd)
		}
		if len(sp.Test) == 0 {
			g.log.Warn("empty test window", "split", i, "testStart", sp.TestStart, "testEnd", sp.TestEnd)
		}

		splits = append(splits, sp)
	}
	return splits, nil
}
