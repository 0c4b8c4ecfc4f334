/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

CONVENTIONS:
  - Instants are epoch milliseconds (the upstream wire format for
    reservation snapshots); optional instants are nullable fields
  - Money is a decimal string, never a JSON float

SEE ALSO:
  - handlers.go: Uses these types
  - billing/types.go: Domain counterparts
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
)

// =============================================================================
// RESERVATIONS
// =============================================================================

// ReservationDTO represents a reservation snapshot on the wire.
type ReservationDTO struct {
	ID               string `json:"id"`
	SupplierID       string `json:"supplier_id"`
	DateFrom         int64  `json:"date_from"`
	DateTo           int64  `json:"date_to"`
	PeriodTypeDays   int    `json:"period_type_days"`
	AgreedPrice      string `json:"agreed_price"`
	Status           string `json:"status"`
	IsClosed         bool   `json:"is_closed"`
	UpdatedAt        *int64 `json:"updated_at,omitempty"`
	ActualReturnDate *int64 `json:"actual_return_date,omitempty"`
}

func toReservationDTO(r billing.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:               string(r.ID),
		SupplierID:       string(r.SupplierID),
		DateFrom:         r.DateFrom.UnixMilli(),
		DateTo:           r.DateTo.UnixMilli(),
		PeriodTypeDays:   r.PeriodTypeDays,
		AgreedPrice:      r.AgreedPrice.String(),
		Status:           string(r.Status),
		IsClosed:         r.IsClosed,
		UpdatedAt:        optMillis(r.UpdatedAt),
		ActualReturnDate: optMillis(r.ActualReturnDate),
	}
}

func (dto ReservationDTO) toDomain() (billing.Reservation, error) {
	if dto.ID == "" {
		return billing.Reservation{}, fmt.Errorf("id is required")
	}
	price, err := decimal.NewFromString(dto.AgreedPrice)
	if err != nil {
		return billing.Reservation{}, fmt.Errorf("invalid agreed_price %q: %w", dto.AgreedPrice, err)
	}
	return billing.Reservation{
		ID:               billing.ReservationID(dto.ID),
		SupplierID:       billing.SupplierID(dto.SupplierID),
		DateFrom:         time.UnixMilli(dto.DateFrom).UTC(),
		DateTo:           time.UnixMilli(dto.DateTo).UTC(),
		PeriodTypeDays:   dto.PeriodTypeDays,
		AgreedPrice:      price,
		Status:           billing.Status(dto.Status),
		IsClosed:         dto.IsClosed,
		UpdatedAt:        optTime(dto.UpdatedAt),
		ActualReturnDate: optTime(dto.ActualReturnDate),
	}, nil
}

// =============================================================================
// PAYOUTS
// =============================================================================

// InstallmentDTO represents one commission installment.
type InstallmentDTO struct {
	ID              string `json:"id"`
	OrderID         string `json:"order_id"`
	IsMonthlyRental bool   `json:"is_monthly_rental"`
	PeriodStart     int64  `json:"period_start"`
	PeriodEnd       int64  `json:"period_end"`
	PayoutMonth     string `json:"payout_month"`
	Amount          string `json:"amount"`
}

// PayoutReportDTO wraps one engine run.
type PayoutReportDTO struct {
	PayoutMonth  string           `json:"payout_month"`
	Installments []InstallmentDTO `json:"installments"`
	Count        int              `json:"count"`
	Total        string           `json:"total"`
	ComputedAt   string           `json:"computed_at,omitempty"`
}

func toPayoutReportDTO(res billing.Result) PayoutReportDTO {
	dtos := make([]InstallmentDTO, len(res.Installments))
	for i, inst := range res.Installments {
		dtos[i] = InstallmentDTO{
			ID:              inst.ID,
			OrderID:         string(inst.OrderID),
			IsMonthlyRental: inst.IsMonthlyRental,
			PeriodStart:     inst.PeriodStart.UnixMilli(),
			PeriodEnd:       inst.PeriodEnd.UnixMilli(),
			PayoutMonth:     inst.PayoutMonth,
			Amount:          inst.Amount.String(),
		}
	}
	return PayoutReportDTO{
		PayoutMonth:  res.PayoutMonth,
		Installments: dtos,
		Count:        len(dtos),
		Total:        res.Total.String(),
	}
}

// =============================================================================
// SCENARIOS / ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo fleet.
type ScenarioDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Reservations int    `json:"reservations"`
}

// LoadScenarioRequest selects a scenario by name.
type LoadScenarioRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// HELPERS
// =============================================================================

func optMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func optTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}
