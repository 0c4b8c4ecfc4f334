/*
monthly.go - Billing rule for recurring 30-day rentals

PURPOSE:
  Tiles a Monthly reservation into consecutive, non-overlapping 30-day
  periods starting at DateFrom and emits an installment for every period
  whose end falls inside the queried service month.

CLOSE BOUNDARY:
  The walk never generates a period ending past the closeBoundary:
  - concluded contract: the resolved end date
  - open contract: the end of the queried service month, which is what
    makes per-month forecasting of in-progress contracts possible

  A trailing period shorter than 30 days is never emitted, even
  partially - there is no pro-rating.

APPORTIONMENT:
  Every emitted period bills the same monthly slice of the agreed price:
  agreedPrice / max(1, totalPlannedDays/30), always on the fixed 30-day
  billing basis.

RESTARTABILITY:
  Each call re-walks from DateFrom; there is no cross-call memo, so the
  same reservation can be queried for any payout month in any order.
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRule computes the recurring installments for a reservation
// classified RentalMonthly.
type MonthlyRule struct {
	Amounts AmountCalculator
}

// Compute walks the 30-day tiling and returns the installments whose
// period ends inside the service month, in chronological order.
func (mr MonthlyRule) Compute(r Reservation, serviceMonth Window, payoutMonth string) []Installment {
	boundary := closeBoundary(r, serviceMonth.End)
	price := monthlyPrice(r)

	var out []Installment
	for start := r.DateFrom; ; start = start.Add(monthlyPeriod) {
		end := start.Add(monthlyPeriod)
		if end.After(boundary) {
			// Trailing partial period: stop entirely, emit nothing past
			// the boundary.
			break
		}
		if serviceMonth.Contains(end) {
			out = append(out, Installment{
				ID:              installmentID(r.ID, start, end),
				OrderID:         r.ID,
				IsMonthlyRental: true,
				PeriodStart:     start,
				PeriodEnd:       end,
				PayoutMonth:     payoutMonth,
				Amount:          mr.Amounts.Commission(monthlyTariffDays, price),
			})
		}
	}
	return out
}

// closeBoundary is the upper instant beyond which no further periods may
// be emitted for this call.
func closeBoundary(r Reservation, serviceMonthEnd time.Time) time.Time {
	if r.Concluded() {
		return ResolveEndDate(r)
	}
	return serviceMonthEnd
}

// monthlyPrice apportions the agreed price across the planned duration:
// agreedPrice / max(1, plannedDays/30).
func monthlyPrice(r Reservation) decimal.Decimal {
	totalDays := billableDays(r.DateFrom, r.DateTo)
	months := decimal.NewFromInt(int64(totalDays)).Div(decimal.NewFromInt(monthlyTariffDays))
	one := decimal.NewFromInt(1)
	if months.LessThan(one) {
		months = one
	}
	return r.AgreedPrice.Div(months)
}
