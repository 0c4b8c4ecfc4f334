/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes reservation snapshot management and payout computation via
  REST. Handles HTTP request/response and JSON serialization, delegates
  all billing semantics to the billing package.

ENDPOINTS:
  Reservations:
    GET    /api/reservations             List snapshots
    POST   /api/reservations             Upsert snapshot
    GET    /api/reservations/{id}        Get snapshot
    DELETE /api/reservations/{id}        Delete snapshot

  Payouts:
    GET    /api/payouts/latest           Last scheduled run
    GET    /api/payouts/{month}          Compute installments for a month
    GET    /api/payouts/{month}/export   Same run as CSV

  Scenarios:
    GET    /api/scenarios                List demo fleets
    POST   /api/scenarios/load           Load a demo fleet

ERROR HANDLING:
  The engine itself is silent-skip: malformed input bills nothing. The
  HTTP edge still pre-validates the month path parameter so clients get
  a 400 instead of a silently empty report.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetrent/commission-engine/billing"
	"github.com/fleetrent/commission-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *billing.Engine

	// Scheduler is optional; when set, /api/payouts/latest serves its
	// most recent run.
	Scheduler *PayoutScheduler
}

// NewHandler creates a handler with the given store and engine.
func NewHandler(store *sqlite.Store, engine *billing.Engine) *Handler {
	return &Handler{Store: store, Engine: engine}
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// ListReservations returns all reservation snapshots.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Store.Reservations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reservations", err)
		return
	}

	dtos := make([]ReservationDTO, len(reservations))
	for i, res := range reservations {
		dtos[i] = toReservationDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReservation returns a single reservation snapshot.
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := billing.ReservationID(chi.URLParam(r, "id"))

	res, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get reservation", err)
		return
	}
	if res == nil {
		writeError(w, http.StatusNotFound, "Reservation not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(*res))
}

// UpsertReservation inserts or replaces a reservation snapshot.
func (h *Handler) UpsertReservation(w http.ResponseWriter, r *http.Request) {
	var dto ReservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := dto.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation", err)
		return
	}
	if err := h.Store.Upsert(r.Context(), res); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store reservation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationDTO(res))
}

// DeleteReservation removes a reservation snapshot.
func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id := billing.ReservationID(chi.URLParam(r, "id"))

	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete reservation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYOUT HANDLERS
// =============================================================================

// ComputePayout runs the engine for the payout month in the path.
// Optional query params: supplier, status.
func (h *Handler) ComputePayout(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if _, err := billing.ParseYearMonth(month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payout month, want YYYY-MM", err)
		return
	}

	result, err := h.computeMonth(r, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute payout", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutReportDTO(result))
}

// ExportPayoutCSV streams the same run as a CSV attachment for the
// reporting/accounting side.
func (h *Handler) ExportPayoutCSV(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if _, err := billing.ParseYearMonth(month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payout month, want YYYY-MM", err)
		return
	}

	result, err := h.computeMonth(r, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute payout", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "commissions-"+month+".csv"))

	loc := h.Engine.Calendar.Location()
	cw := csv.NewWriter(w)
	cw.Write([]string{"installment_id", "order_id", "monthly", "period_start", "period_end", "payout_month", "amount"})
	for _, inst := range result.Installments {
		cw.Write([]string{
			inst.ID,
			string(inst.OrderID),
			fmt.Sprintf("%t", inst.IsMonthlyRental),
			inst.PeriodStart.In(loc).Format(time.RFC3339),
			inst.PeriodEnd.In(loc).Format(time.RFC3339),
			inst.PayoutMonth,
			inst.Amount.String(),
		})
	}
	cw.Write([]string{"total", "", "", "", "", result.PayoutMonth, result.Total.String()})
	cw.Flush()
}

// LatestPayout returns the most recent scheduled run.
func (h *Handler) LatestPayout(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, "Scheduler not running", nil)
		return
	}
	result, at, ok := h.Scheduler.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "No payout run yet", nil)
		return
	}
	dto := toPayoutReportDTO(result)
	dto.ComputedAt = at.Format(time.RFC3339)
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) computeMonth(r *http.Request, month string) (billing.Result, error) {
	reservations, err := h.Store.Reservations(r.Context())
	if err != nil {
		return billing.Result{}, err
	}

	var filter billing.Filter
	if supplier := r.URL.Query().Get("supplier"); supplier != "" {
		id := billing.SupplierID(supplier)
		filter.Supplier = &id
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := billing.Status(status)
		filter.Status = &st
	}

	return h.Engine.Compute(month, reservations, filter), nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
