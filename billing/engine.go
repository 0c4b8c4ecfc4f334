/*
engine.go - Installment engine orchestration

PURPOSE:
  The entry point callers use. Parses the payout month, derives the
  service month (payout minus one), filters the snapshot, dispatches each
  reservation to the matching billing rule, and totals the result with
  decimal arithmetic.

ERROR POLICY:
  Skip, don't abort. A malformed payout month, an ineligible reservation,
  or a period outside the window all contribute zero installments. There
  is no error path: an empty Result is a valid outcome, not a failure
  signal.

CONCURRENCY:
  Compute is pure over immutable inputs and keeps no cross-call state, so
  one Engine is safe for concurrent use without locking.
*/
package billing

import "github.com/shopspring/decimal"

// Engine computes commission installments for a payout month.
type Engine struct {
	Calendar *Calendar
	Amounts  AmountCalculator
}

// NewEngine builds an engine with the fixed zone calendar and the given
// rate policy.
func NewEngine(amounts AmountCalculator) (*Engine, error) {
	cal, err := NewCalendar()
	if err != nil {
		return nil, err
	}
	return &Engine{Calendar: cal, Amounts: amounts}, nil
}

// Filter narrows which reservations are considered. Nil fields match
// everything; when Status is nil only Cancelled is excluded - the default
// is deliberately inclusive so open contracts still reach the rules,
// which decide billing eligibility on their own.
type Filter struct {
	Supplier *SupplierID
	Status   *Status
}

func (f Filter) matches(r Reservation) bool {
	if f.Supplier != nil && r.SupplierID != *f.Supplier {
		return false
	}
	if f.Status != nil {
		return r.Status == *f.Status
	}
	return r.Status != StatusCancelled
}

// Compute returns every installment due in payoutMonth for the given
// snapshot, plus the decimal total.
func (e *Engine) Compute(payoutMonth string, reservations []Reservation, filter Filter) Result {
	result := Result{
		PayoutMonth:  payoutMonth,
		Installments: []Installment{},
		Total:        decimal.Zero,
	}

	payout, err := ParseYearMonth(payoutMonth)
	if err != nil {
		// Malformed month bills nothing.
		return result
	}
	serviceMonth := e.Calendar.MonthWindow(payout.Prev())

	standard := StandardRule{Calendar: e.Calendar, Amounts: e.Amounts}
	monthly := MonthlyRule{Amounts: e.Amounts}

	var produced []Installment
	for _, r := range reservations {
		if !filter.matches(r) {
			continue
		}
		switch Classify(r) {
		case RentalMonthly:
			produced = append(produced, monthly.Compute(r, serviceMonth, payoutMonth)...)
		default:
			if inst, ok := standard.Compute(r, serviceMonth, payoutMonth); ok {
				produced = append(produced, inst)
			}
		}
	}

	// Invariant check: every installment carries the requested payout
	// month. A mismatch means internal drift; drop rather than mis-post.
	for _, inst := range produced {
		if inst.PayoutMonth != payoutMonth {
			continue
		}
		result.Installments = append(result.Installments, inst)
		result.Total = result.Total.Add(inst.Amount)
	}
	return result
}
