// Package panel expands the sparse raw sales data to the complete
// (store × brand × week) key space and serves week-window views over the
// result.
package panel

import (
	"fmt"
	"sort"
	"time"

	"salesprep/internal/domain"
)

// Panel is the densified observation set. Rows are ordered week-major
// (week, store, brand), so every week window is a contiguous slice of the
// backing array and the time index is strictly increasing within each
// (store, brand) pair. The panel is read-only once built.
type Panel struct {
	obs    []domain.Observation
	start  time.Time
	stores []int
	brands []int

	minWeek int
	maxWeek int
}

// Densify builds the complete panel from raw observations. For every
// distinct store, distinct brand, and week in the global [min, max] week
// range of the raw data there is exactly one output row; combinations
// absent from the input get a row with nil measurements. Measurement
// values of present rows are carried over unchanged — densification never
// fabricates data. start maps week offset 0 to a calendar date.
//
// Pairs with data in only a sub-range of weeks are still filled across
// the full global range; truncating the analysis window is a
// configuration decision, not the densifier's.
func Densify(raw []domain.Observation, start time.Time) (*Panel, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("cannot densify an empty dataset")
	}

	type key struct{ store, brand, week int }

	storeSet := make(map[int]struct{})
	brandSet := make(map[int]struct{})
	byKey := make(map[key]domain.Observation, len(raw))
	minWeek, maxWeek := raw[0].Week, raw[0].Week

	for _, o := range raw {
		storeSet[o.Store] = struct{}{}
		brandSet[o.Brand] = struct{}{}
		// Later duplicates win, keeping exactly one row per key.
		byKey[key{o.Store, o.Brand, o.Week}] = o
		if o.Week < minWeek {
			minWeek = o.Week
		}
		if o.Week > maxWeek {
			maxWeek = o.Week
		}
	}

	stores := sortedInts(storeSet)
	brands := sortedInts(brandSet)

	obs := make([]domain.Observation, 0, (maxWeek-minWeek+1)*len(stores)*len(brands))
	for week := minWeek; week <= maxWeek; week++ {
		for _, store := range stores {
			for _, brand := range brands {
				if o, ok := byKey[key{store, brand, week}]; ok {
					obs = append(obs, o)
				} else {
					obs = append(obs, domain.Observation{Store: store, Brand: brand, Week: week})
				}
			}
		}
	}

	return &Panel{
		obs:     obs,
		start:   start,
		stores:  stores,
		brands:  brands,
		minWeek: minWeek,
		maxWeek: maxWeek,
	}, nil
}

// Len returns the number of rows in the panel.
func (p *Panel) Len() int { return len(p.obs) }

// Observations returns all panel rows in week-major order. Callers must
// not mutate the returned slice.
func (p *Panel) Observations() []domain.Observation { return p.obs }

// Start returns the calendar date of week offset 0.
func (p *Panel) Start() time.Time { return p.start }

// Stores returns the distinct store keys in ascending order.
func (p *Panel) Stores() []int { return p.stores }

// Brands returns the distinct brand keys in ascending order.
func (p *Panel) Brands() []int { return p.brands }

// WeekRange returns the global [min, max] week offsets of the panel.
func (p *Panel) WeekRange() (int, int) { return p.minWeek, p.maxWeek }

// TimeIndex returns the canonical year-week time index for the given week
// offset, using the panel's start date.
func (p *Panel) TimeIndex(weekOffset int) domain.YearWeek {
	return domain.WeekIndex(p.start, weekOffset)
}

// Window returns the rows whose time index falls within [from, to]
// inclusive, across all store/brand keys. The result is a contiguous,
// non-owning view of the panel's backing array; an empty window yields an
// empty slice, not an error.
func (p *Panel) Window(from, to domain.YearWeek) []domain.Observation {
	lo := sort.Search(len(p.obs), func(i int) bool {
		return !p.TimeIndex(p.obs[i].Week).Before(from)
	})
	hi := sort.Search(len(p.obs), func(i int) bool {
		return p.TimeIndex(p.obs[i].Week).After(to)
	})
	if lo >= hi {
		return nil
	}
	return p.obs[lo:hi]
}

func sortedInts(set map[int]struct{}) []int {
	vals := make([]int, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Ints(vals)
	return vals
}
