/*
Package billing implements the commission-installment calculation engine.

PURPOSE:
  Given a snapshot of rental reservations, compute which commission
  payments are due in a given calendar payout month, and in what amount.
  Commissions are always paid one calendar month after the activity they
  cover: the "service month" is payout month minus one.

KEY CONCEPTS IN THIS FILE (types.go):
  - Reservation: Immutable input snapshot of a rental contract
  - Installment: A single commission payment for a billed window
  - AmountCalculator: Pluggable rate policy (rates package has concrete ones)
  - ReservationSource: Upstream supplier of reservation snapshots

DESIGN PRINCIPLES:
  1. Purity: Compute never mutates inputs and keeps no cross-call state
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Skip, don't abort: ineligible input contributes zero installments,
     never an error - one bad reservation cannot block a batch
  4. Determinism: identical inputs yield identical installment lists,
     including ids and ordering

SEE ALSO:
  - calendar.go: Fixed-zone month arithmetic
  - standard.go / monthly.go: The two billing rules
  - engine.go: Orchestration, filtering, totals
*/
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ReservationID string
type SupplierID string

// =============================================================================
// RESERVATION - Input snapshot (externally owned, read-only here)
// =============================================================================

// Status is the reservation lifecycle state as recorded upstream.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Reservation is a snapshot of a rental contract.
// DateFrom <= DateTo is assumed but not enforced; the billing rules clamp
// defensively instead of rejecting.
type Reservation struct {
	ID         ReservationID
	SupplierID SupplierID

	// Planned contract bounds.
	DateFrom time.Time
	DateTo   time.Time

	// Tariff hint: 30 signals an explicit monthly tariff.
	PeriodTypeDays int

	// Total contracted price for the full planned duration.
	AgreedPrice decimal.Decimal

	Status   Status
	IsClosed bool

	// UpdatedAt is the last state change; it is the authoritative closing
	// timestamp once IsClosed is true. Nil when never recorded.
	UpdatedAt *time.Time

	// ActualReturnDate is the real-world return time, if recorded.
	ActualReturnDate *time.Time
}

// Concluded reports whether the contract's billable activity has ended:
// either administratively closed or the vehicle was actually returned.
func (r Reservation) Concluded() bool {
	return r.IsClosed || r.ActualReturnDate != nil
}

// =============================================================================
// INSTALLMENT - Output value object (recomputed from scratch on every call)
// =============================================================================

// Installment is one commission payment for a billed window.
type Installment struct {
	// ID is deterministic over (OrderID, PeriodStart, PeriodEnd) so a
	// downstream store can upsert idempotently.
	ID string

	OrderID         ReservationID
	IsMonthlyRental bool

	// The billed window.
	PeriodStart time.Time
	PeriodEnd   time.Time

	// PayoutMonth is the requested "YYYY-MM" payout month.
	PayoutMonth string

	Amount decimal.Decimal
}

// installmentID derives the deterministic installment id. Same inputs
// always yield the same id.
func installmentID(orderID ReservationID, periodStart, periodEnd time.Time) string {
	return fmt.Sprintf("%s:%d:%d", orderID, periodStart.UnixMilli(), periodEnd.UnixMilli())
}

// Result is the outcome of one Compute call.
type Result struct {
	PayoutMonth  string
	Installments []Installment
	Total        decimal.Decimal
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// AmountCalculator turns a billed period into a commission amount.
// Implementations are opaque pure functions; the rate table and rounding
// policy live entirely behind this interface (see the rates package).
type AmountCalculator interface {
	Commission(billableDays int, basePrice decimal.Decimal) decimal.Decimal
}

// ReservationSource supplies reservation snapshots, already fetched and
// pre-filtered by the caller as desired.
type ReservationSource interface {
	Reservations(ctx context.Context) ([]Reservation, error)
}

// =============================================================================
// DURATION HELPERS
// =============================================================================

// day is a fixed 24h instant-arithmetic day. Period math here is over
// instants, never wall-clock days: the monthly tiling invariant requires
// consecutive periods exactly 30 days apart even across DST transitions.
const day = 24 * time.Hour

// billableDays is floor((to-from)/1 day), clamped to at least one day.
// The clamp also covers inverted bounds, per the defensive-clamp policy.
func billableDays(from, to time.Time) int {
	d := int(to.Sub(from) / day)
	if d < 1 {
		return 1
	}
	return d
}
