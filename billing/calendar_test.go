package billing_test

import (
	"testing"
	"time"

	"github.com/fleetrent/commission-engine/billing"
)

// =============================================================================
// YEAR-MONTH PARSING
// =============================================================================

func TestParseYearMonth_Valid(t *testing.T) {
	ym, err := billing.ParseYearMonth("2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ym.Year != 2024 || ym.Month != time.February {
		t.Errorf("got %v", ym)
	}
	if ym.String() != "2024-02" {
		t.Errorf("round trip: %s", ym.String())
	}
}

func TestParseYearMonth_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-a-month", "2024", "2024-13", "2024-0", "2024-2", "2024-02-01", "02-2024"} {
		if _, err := billing.ParseYearMonth(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}

func TestYearMonth_PrevNext_YearBoundaries(t *testing.T) {
	jan := billing.YearMonth{Year: 2024, Month: time.January}
	if got := jan.Prev(); got != (billing.YearMonth{Year: 2023, Month: time.December}) {
		t.Errorf("Prev(Jan 2024) = %v", got)
	}
	dec := billing.YearMonth{Year: 2023, Month: time.December}
	if got := dec.Next(); got != jan {
		t.Errorf("Next(Dec 2023) = %v", got)
	}
}

// =============================================================================
// ZONE-ANCHORED MONTH MEMBERSHIP
// =============================================================================

func TestYearMonthOf_UsesEngineZoneNotUTC(t *testing.T) {
	// GIVEN: An instant late on the last UTC day of January
	// WHEN: Asking which month it belongs to
	// THEN: Local time (UTC+2 in winter) is already February

	utcJan := time.Date(2024, time.January, 31, 21, 30, 0, 0, time.UTC)
	if got := cal.YearMonthOf(utcJan); got.Month != time.January {
		t.Errorf("21:30Z on Jan 31 is still January locally, got %v", got)
	}

	utcLater := time.Date(2024, time.January, 31, 22, 30, 0, 0, time.UTC)
	if got := cal.YearMonthOf(utcLater); got.Month != time.February {
		t.Errorf("22:30Z on Jan 31 is February locally, got %v", got)
	}
}

func TestMonthStart_RespectsDST(t *testing.T) {
	// The zone's UTC offset differs across the year: +2 in winter,
	// +3 in summer. Month starts must follow the zone database.
	cases := []struct {
		ym         billing.YearMonth
		wantOffset int
	}{
		{billing.YearMonth{Year: 2024, Month: time.March}, 2 * 3600},    // before DST start (Mar 29)
		{billing.YearMonth{Year: 2024, Month: time.April}, 3 * 3600},    // after DST start
		{billing.YearMonth{Year: 2024, Month: time.October}, 3 * 3600},  // before DST end (Oct 27)
		{billing.YearMonth{Year: 2024, Month: time.November}, 2 * 3600}, // after DST end
	}
	for _, tc := range cases {
		start := cal.MonthStart(tc.ym)
		if start.Hour() != 0 || start.Minute() != 0 || start.Day() != 1 {
			t.Errorf("%v: start is not local midnight of day 1: %v", tc.ym, start)
		}
		if _, off := start.Zone(); off != tc.wantOffset {
			t.Errorf("%v: offset %d, want %d", tc.ym, off, tc.wantOffset)
		}
	}
}

func TestMonthEnd_LastMillisecondOfMonth(t *testing.T) {
	feb := billing.YearMonth{Year: 2024, Month: time.February}
	end := cal.MonthEnd(feb)

	if end.Day() != 29 {
		t.Errorf("February 2024 is a leap month, end day = %d", end.Day())
	}
	nextStart := cal.MonthStart(feb.Next())
	if got := nextStart.Sub(end); got != time.Millisecond {
		t.Errorf("gap between month end and next start: %v", got)
	}
}

func TestMonthWindow_InclusiveBounds(t *testing.T) {
	jan := billing.YearMonth{Year: 2024, Month: time.January}
	w := cal.MonthWindow(jan)

	if !w.Contains(w.Start) {
		t.Error("window excludes its start")
	}
	if !w.Contains(w.End) {
		t.Error("window excludes its end")
	}
	if w.Contains(w.Start.Add(-time.Millisecond)) {
		t.Error("window includes the previous month")
	}
	if w.Contains(w.End.Add(time.Millisecond)) {
		t.Error("window includes the next month")
	}
}
