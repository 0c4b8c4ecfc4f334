/*
calendar.go - Fixed-zone month arithmetic

PURPOSE:
  All month-boundary math is anchored to one fixed IANA zone, never the
  caller's local zone. Supplier commissions settle on Israeli calendar
  months, so a reservation ending 23:30 UTC on the last day of a month
  already belongs to the next local month.

KEY CONCEPTS:
  - Calendar: holds the loaded *time.Location; the only configuration
    surface of the whole engine
  - YearMonth: a "YYYY-MM" calendar month with Prev/Next stepping
  - Window: an inclusive [Start, End] instant range

DST:
  The zone's UTC offset varies through the year. Month starts are local
  midnights resolved through the zone database; nothing here assumes a
  fixed offset.
*/
package billing

import (
	"fmt"
	"time"
)

// ZoneName is the fixed IANA zone for all month-boundary math.
const ZoneName = "Asia/Jerusalem"

// monthLayout is the wire format for payout and service months.
const monthLayout = "2006-01"

// =============================================================================
// YEAR-MONTH
// =============================================================================

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a strict "YYYY-MM" string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid payout month %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Prev returns the preceding calendar month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// =============================================================================
// WINDOW - Inclusive instant range
// =============================================================================

type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within [Start, End] inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar performs month-boundary arithmetic in the fixed engine zone.
// The zero value is not usable; construct via NewCalendar or MustCalendar.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the engine zone from the system zone database.
func NewCalendar() (*Calendar, error) {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		return nil, fmt.Errorf("load zone %s: %w", ZoneName, err)
	}
	return &Calendar{loc: loc}, nil
}

// MustCalendar is NewCalendar for wiring and tests.
func MustCalendar() *Calendar {
	cal, err := NewCalendar()
	if err != nil {
		panic(err)
	}
	return cal
}

// Location returns the engine zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// YearMonthOf returns the calendar month containing the instant, in the
// engine zone.
func (c *Calendar) YearMonthOf(t time.Time) YearMonth {
	lt := t.In(c.loc)
	return YearMonth{Year: lt.Year(), Month: lt.Month()}
}

// MonthStart returns local midnight of day 1.
func (c *Calendar) MonthStart(ym YearMonth) time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, c.loc)
}

// MonthEnd returns the last millisecond of the last day of the month.
func (c *Calendar) MonthEnd(ym YearMonth) time.Time {
	return c.MonthStart(ym.Next()).Add(-time.Millisecond)
}

// MonthWindow returns the inclusive instant range covering the month.
func (c *Calendar) MonthWindow(ym YearMonth) Window {
	return Window{Start: c.MonthStart(ym), End: c.MonthEnd(ym)}
}
