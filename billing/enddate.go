package billing

import "time"

// =============================================================================
// END DATE RESOLVER - The authoritative commission end date
// =============================================================================

// ResolveEndDate picks the instant marking when a reservation's billable
// activity concluded. Priority, first match wins:
//
//  1. Closed with a recorded state change: the closing action is the
//     authoritative billing trigger.
//  2. Actual return recorded: the vehicle came back.
//  3. Planned end: forecast fallback for still-open contracts.
//
// Never absent - always falls back to DateTo.
func ResolveEndDate(r Reservation) time.Time {
	if r.IsClosed && r.UpdatedAt != nil && !r.UpdatedAt.IsZero() {
		return *r.UpdatedAt
	}
	if r.ActualReturnDate != nil {
		return *r.ActualReturnDate
	}
	return r.DateTo
}
