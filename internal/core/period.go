package core

import (
	"fmt"
	"time"
)

// Period is one calendar month in a given location.
type Period struct {
	Year     int
	Month    time.Month
	Location *time.Location
}

// NewPeriod validates year and month. A nil location means UTC.
func NewPeriod(year, month int, loc *time.Location) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if year < 2000 || year > 9999 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Period{Year: year, Month: time.Month(month), Location: loc}, nil
}

// Start is the first instant of the month (inclusive).
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, p.location())
}

// End is the first instant of the following month (exclusive).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls in [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start()) && t.Before(p.End())
}

// String returns "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}
