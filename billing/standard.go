/*
standard.go - Billing rule for non-recurring rentals

PURPOSE:
  Computes at most one installment for a Standard (non-monthly) rental.
  Three guards run in order; any failure yields no installment, never an
  error.

GUARDS:
  1. Closed-only: a still-open standard rental never bills, not even as
     a forecast.
  2. Same-month: the contract must start and end within the same calendar
     month in the engine zone. Standard rentals spanning a month boundary
     structurally never bill - intentional upstream behavior, preserved
     here rather than "fixed" (see DESIGN.md).
  3. Window: the resolved end date must lie within the service month.
*/
package billing

// StandardRule computes the single one-off installment for a reservation
// classified RentalStandard.
type StandardRule struct {
	Calendar *Calendar
	Amounts  AmountCalculator
}

// Compute returns the installment for the given service month, or
// ok=false when any guard fails.
func (sr StandardRule) Compute(r Reservation, serviceMonth Window, payoutMonth string) (Installment, bool) {
	if !r.Concluded() {
		return Installment{}, false
	}

	end := ResolveEndDate(r)

	if sr.Calendar.YearMonthOf(r.DateFrom) != sr.Calendar.YearMonthOf(end) {
		return Installment{}, false
	}
	if !serviceMonth.Contains(end) {
		return Installment{}, false
	}

	days := billableDays(r.DateFrom, end)
	return Installment{
		ID:              installmentID(r.ID, r.DateFrom, end),
		OrderID:         r.ID,
		IsMonthlyRental: false,
		PeriodStart:     r.DateFrom,
		PeriodEnd:       end,
		PayoutMonth:     payoutMonth,
		Amount:          sr.Amounts.Commission(days, r.AgreedPrice),
	}, true
}
