package domain

import (
	"fmt"
	"time"
)

// YearWeek is the canonical time index of the densified panel: a
// (year, week-of-year) period with a total order. It is derived from a
// calendar date via the ISO 8601 week calendar, so consecutive calendar
// weeks always map to strictly increasing YearWeek values, including
// across year boundaries.
type YearWeek struct {
	Year int
	Week int
}

// YearWeekOf returns the YearWeek period containing the given date.
func YearWeekOf(t time.Time) YearWeek {
	y, w := t.ISOWeek()
	return YearWeek{Year: y, Week: w}
}

// Compare returns -1, 0, or +1 as yw sorts before, equal to, or after
// other.
func (yw YearWeek) Compare(other YearWeek) int {
	switch {
	case yw.Year != other.Year:
		if yw.Year < other.Year {
			return -1
		}
		return 1
	case yw.Week != other.Week:
		if yw.Week < other.Week {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether yw is strictly earlier than other.
func (yw YearWeek) Before(other YearWeek) bool { return yw.Compare(other) < 0 }

// After reports whether yw is strictly later than other.
func (yw YearWeek) After(other YearWeek) bool { return yw.Compare(other) > 0 }

// String formats the period as e.g. "1990-W26".
func (yw YearWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", yw.Year, yw.Week)
}

// WeekStart maps an integer week offset to its calendar date: the
// reference start date plus offset*7 days.
func WeekStart(start time.Time, offset int) time.Time {
	return start.AddDate(0, 0, 7*offset)
}

// WeekIndex maps an integer week offset to the canonical YearWeek time
// index, using the same start-date-relative conversion everywhere in the
// pipeline.
func WeekIndex(start time.Time, offset int) YearWeek {
	return YearWeekOf(WeekStart(start, offset))
}
