/*
scenarios.go - Loadable demo fleets

PURPOSE:
  Seeds the reservation store with small, self-consistent fleets so the
  dashboard has something to show. Dates are anchored to the previous
  calendar month (the service month of the current payout month), so a
  freshly loaded scenario immediately produces installments.

SEE ALSO:
  - handlers.go: Scenario endpoints
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
)

// Scenario is a named demo fleet.
type Scenario struct {
	Name        string
	Description string
	Build       func(cal *billing.Calendar, now time.Time) []billing.Reservation
}

func scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "city-fleet",
			Description: "Short closed rentals from two suppliers, one cancelled",
			Build:       cityFleet,
		},
		{
			Name:        "monthly-contracts",
			Description: "Long-running 30-day contracts, open and closed",
			Build:       monthlyContracts,
		},
	}
}

func cityFleet(cal *billing.Calendar, now time.Time) []billing.Reservation {
	service := cal.YearMonthOf(now).Prev()
	start := cal.MonthStart(service)

	day5 := start.AddDate(0, 0, 4)
	day12 := start.AddDate(0, 0, 11)
	day20 := start.AddDate(0, 0, 19)

	return []billing.Reservation{
		closedRental("city-001", "supplier-east", day5, day12, 420),
		closedRental("city-002", "supplier-east", day5, day20, 980),
		closedRental("city-003", "supplier-west", day12, day20, 610),
		cancelled("city-004", "supplier-west", day5, day12, 350),
	}
}

func monthlyContracts(cal *billing.Calendar, now time.Time) []billing.Reservation {
	service := cal.YearMonthOf(now).Prev()
	// Start far enough back that several 30-day periods have completed.
	start := cal.MonthStart(service).AddDate(0, -2, 0)

	open := billing.Reservation{
		ID:             "monthly-001",
		SupplierID:     "supplier-east",
		DateFrom:       start,
		DateTo:         start.AddDate(0, 6, 0),
		PeriodTypeDays: 30,
		AgreedPrice:    decimal.NewFromInt(18000),
		Status:         billing.StatusActive,
	}

	returned := start.Add(65 * 24 * time.Hour)
	closed := billing.Reservation{
		ID:               "monthly-002",
		SupplierID:       "supplier-west",
		DateFrom:         start,
		DateTo:           start.AddDate(0, 4, 0),
		PeriodTypeDays:   30,
		AgreedPrice:      decimal.NewFromInt(12000),
		Status:           billing.StatusCompleted,
		IsClosed:         true,
		UpdatedAt:        &returned,
		ActualReturnDate: &returned,
	}

	return []billing.Reservation{open, closed}
}

func closedRental(id, supplier string, from, to time.Time, price int64) billing.Reservation {
	end := to
	return billing.Reservation{
		ID:               billing.ReservationID(id),
		SupplierID:       billing.SupplierID(supplier),
		DateFrom:         from,
		DateTo:           to,
		AgreedPrice:      decimal.NewFromInt(price),
		Status:           billing.StatusCompleted,
		IsClosed:         true,
		UpdatedAt:        &end,
		ActualReturnDate: &end,
	}
}

func cancelled(id, supplier string, from, to time.Time, price int64) billing.Reservation {
	return billing.Reservation{
		ID:          billing.ReservationID(id),
		SupplierID:  billing.SupplierID(supplier),
		DateFrom:    from,
		DateTo:      to,
		AgreedPrice: decimal.NewFromInt(price),
		Status:      billing.StatusCancelled,
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo fleets.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	var dtos []ScenarioDTO
	for _, sc := range scenarios() {
		dtos = append(dtos, ScenarioDTO{
			Name:         sc.Name,
			Description:  sc.Description,
			Reservations: len(sc.Build(h.Engine.Calendar, now)),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenario resets the store and seeds the named fleet.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var selected *Scenario
	for _, sc := range scenarios() {
		if sc.Name == req.Name {
			sc := sc
			selected = &sc
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	reservations := selected.Build(h.Engine.Calendar, time.Now())
	for _, res := range reservations {
		if err := h.Store.Upsert(ctx, res); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to seed scenario", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		Name:         selected.Name,
		Description:  selected.Description,
		Reservations: len(reservations),
	})
}
