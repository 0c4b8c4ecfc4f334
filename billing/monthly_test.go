package billing_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
)

func serviceWindow(year int, month time.Month) billing.Window {
	return cal.MonthWindow(billing.YearMonth{Year: year, Month: month})
}

func TestMonthlyRule_TilingInvariant(t *testing.T) {
	// GIVEN: An open 120-day monthly contract starting Jan 1
	// WHEN: Computing for service month March
	// THEN: The two periods ending inside March tile exactly:
	//       consecutive, non-overlapping, each precisely 30 days,
	//       even though the walk crosses a DST transition

	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-1", from, from.Add(120*24*time.Hour), 4000)

	installments := rule.Compute(r, serviceWindow(2024, time.March), "2024-04")
	if len(installments) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(installments))
	}

	for i, inst := range installments {
		if got := inst.PeriodEnd.Sub(inst.PeriodStart); got != 30*24*time.Hour {
			t.Errorf("period %d length %v, want exactly 30 days", i, got)
		}
	}
	if !installments[0].PeriodEnd.Equal(installments[1].PeriodStart) {
		t.Errorf("periods not contiguous: %v then %v",
			installments[0].PeriodEnd, installments[1].PeriodStart)
	}
	// First emitted end is Jan 1 + 60 days, landing exactly on the
	// service window's start instant - the inclusive boundary case.
	if !installments[0].PeriodEnd.Equal(from.Add(60 * 24 * time.Hour)) {
		t.Errorf("first emitted end %v", installments[0].PeriodEnd)
	}
}

func TestMonthlyRule_ShortFebruaryCanSkipAMonth(t *testing.T) {
	// The 30-day tiling from Jan 1, 2024 produces ends on Jan 31 and
	// Mar 1; no period ends inside February at all. Fixed tiling, not a
	// calendar-month schedule.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-2", from, from.Add(120*24*time.Hour), 4000)

	installments := rule.Compute(r, serviceWindow(2024, time.February), "2024-03")
	if len(installments) != 0 {
		t.Errorf("expected no period ends inside February, got %d", len(installments))
	}
}

func TestMonthlyRule_OpenContract_ForecastBoundedByServiceMonth(t *testing.T) {
	// GIVEN: An open contract whose tiling extends past the queried month
	// WHEN: Computing for service month January
	// THEN: Only the period ending inside January is emitted; the walk
	//       stops at the month end, not at the planned contract end

	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-3", from, from.Add(180*24*time.Hour), 6000)

	installments := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")
	if len(installments) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(installments))
	}
	if !installments[0].PeriodEnd.Equal(from.Add(30 * 24 * time.Hour)) {
		t.Errorf("period end %v", installments[0].PeriodEnd)
	}
}

func TestMonthlyRule_TrailingPartialPeriodDropped(t *testing.T) {
	// Returned 25 days in: the first 30-day period never completed, so
	// nothing bills - no pro-rating.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)

	r := openMonthly("mon-4", from, from.Add(90*24*time.Hour), 3000)
	r.IsClosed = true
	r.Status = billing.StatusCompleted
	r.UpdatedAt = tp(from.Add(25 * 24 * time.Hour))
	r.ActualReturnDate = tp(from.Add(25 * 24 * time.Hour))

	for _, month := range []time.Month{time.January, time.February, time.March} {
		if got := rule.Compute(r, serviceWindow(2024, month), "x"); len(got) != 0 {
			t.Errorf("service %v: expected 0 installments, got %d", month, len(got))
		}
	}
}

func TestMonthlyRule_ExactBoundaryPeriodEmitted(t *testing.T) {
	// A period ending exactly at the close boundary is still billed.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)

	r := openMonthly("mon-5", from, from.Add(90*24*time.Hour), 3000)
	r.IsClosed = true
	r.Status = billing.StatusCompleted
	r.UpdatedAt = tp(from.Add(30 * 24 * time.Hour))

	installments := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")
	if len(installments) != 1 {
		t.Fatalf("expected the boundary period, got %d installments", len(installments))
	}
	if !installments[0].PeriodEnd.Equal(from.Add(30 * 24 * time.Hour)) {
		t.Errorf("period end %v", installments[0].PeriodEnd)
	}
}

func TestMonthlyRule_ClosedWithoutReturnDate_BoundsAtClosingTimestamp(t *testing.T) {
	// GIVEN: An administratively closed contract with no recorded return
	// WHEN: Computing for service month March
	// THEN: Tiling stops at the closing timestamp instead of
	//       forecasting to the month end (see DESIGN.md)

	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)

	r := openMonthly("mon-6", from, from.Add(180*24*time.Hour), 6000)
	r.IsClosed = true
	r.Status = billing.StatusCompleted
	r.UpdatedAt = tp(from.Add(70 * 24 * time.Hour))

	installments := rule.Compute(r, serviceWindow(2024, time.March), "2024-04")
	if len(installments) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(installments))
	}
	// The +60d period end is inside March and before the +70d boundary;
	// the +90d period crosses it and is dropped.
	if !installments[0].PeriodEnd.Equal(from.Add(60 * 24 * time.Hour)) {
		t.Errorf("period end %v", installments[0].PeriodEnd)
	}
}

func TestMonthlyRule_Apportionment(t *testing.T) {
	// GIVEN: 90 planned days at agreed price 1000
	// THEN: Every period bills a third of the price on the fixed
	//       30-day basis

	rec := &dayRecorder{}
	rule := billing.MonthlyRule{Amounts: rec}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-7", from, from.Add(90*24*time.Hour), 1000)

	installments := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")
	if len(installments) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(installments))
	}

	wantPrice := decimal.NewFromInt(1000).Div(decimal.NewFromInt(3))
	if !installments[0].Amount.Equal(wantPrice) {
		t.Errorf("monthly price %v, want %v", installments[0].Amount, wantPrice)
	}
	if len(rec.days) != 1 || rec.days[0] != 30 {
		t.Errorf("billing basis %v, want the fixed [30]", rec.days)
	}
}

func TestMonthlyRule_ShortContractClampsToOneMonth(t *testing.T) {
	// A 10-day contract on the explicit monthly tariff apportions over
	// max(1, 10/30) = 1 month: the forecast period bills the full price.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-8", from, from.Add(10*24*time.Hour), 750)

	installments := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")
	if len(installments) != 1 {
		t.Fatalf("expected 1 forecast installment, got %d", len(installments))
	}
	if !installments[0].Amount.Equal(price(750)) {
		t.Errorf("amount %v, want the full 750", installments[0].Amount)
	}
}

func TestMonthlyRule_RestartableAcrossPayoutMonths(t *testing.T) {
	// The walk recomputes from DateFrom on every call; querying other
	// months in between changes nothing.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.January, 1)
	r := openMonthly("mon-9", from, from.Add(180*24*time.Hour), 6000)

	first := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")
	rule.Compute(r, serviceWindow(2024, time.April), "2024-05")
	again := rule.Compute(r, serviceWindow(2024, time.January), "2024-02")

	if !reflect.DeepEqual(first, again) {
		t.Error("repeated walk produced a different result")
	}
}

func TestMonthlyRule_StartsAfterServiceMonth_NoInstallments(t *testing.T) {
	// A contract starting after the queried month can tile nothing
	// into it.
	rule := billing.MonthlyRule{Amounts: passBase{}}
	from := midnight(2024, time.March, 1)
	r := openMonthly("mon-10", from, from.Add(90*24*time.Hour), 3000)

	if got := rule.Compute(r, serviceWindow(2024, time.January), "2024-02"); len(got) != 0 {
		t.Errorf("expected 0 installments, got %d", len(got))
	}
}
