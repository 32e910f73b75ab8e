package model

import (
	"fmt"
	"time"
)

// DateLayout is the 8-digit YYYYMMDD form of page-view dates.
const DateLayout = "20060102"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYYMMDD dates into a DateRange.
// Start must not be after End.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := parseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := parseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	if s.After(e) {
		return DateRange{}, fmt.Errorf("%w: %s is after %s", ErrDateRangeOrder, start, end)
	}
	return DateRange{Start: s, End: e}, nil
}

func parseDate(value string) (time.Time, error) {
	if len(value) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYYMMDD)", ErrInvalidDate, value)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYYMMDD)", ErrInvalidDate, value)
	}
	return t, nil
}

// StartString returns the start date as YYYYMMDD.
func (d DateRange) StartString() string {
	return d.Start.Format(DateLayout)
}

// EndString returns the end date as YYYYMMDD.
func (d DateRange) EndString() string {
	return d.End.Format(DateLayout)
}

// Days returns the number of calendar days covered by the range.
func (d DateRange) Days() int {
	return int(d.End.Sub(d.Start).Hours()/24) + 1
}

// String implements fmt.Stringer.
func (d DateRange) String() string {
	return d.StartString() + "-" + d.EndString()
}
