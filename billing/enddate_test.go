package billing_test

import (
	"testing"
	"time"

	"github.com/fleetrent/commission-engine/billing"
)

func TestResolveEndDate_Priority(t *testing.T) {
	planned := midnight(2024, time.March, 20)
	closedAt := midnight(2024, time.March, 18)
	returnedAt := midnight(2024, time.March, 15)

	cases := []struct {
		name string
		r    billing.Reservation
		want time.Time
	}{
		{
			"closing timestamp wins over everything",
			billing.Reservation{DateTo: planned, IsClosed: true, UpdatedAt: tp(closedAt), ActualReturnDate: tp(returnedAt)},
			closedAt,
		},
		{
			"closed without a recorded state change falls to actual return",
			billing.Reservation{DateTo: planned, IsClosed: true, ActualReturnDate: tp(returnedAt)},
			returnedAt,
		},
		{
			"closed with a zero-value state change falls to actual return",
			billing.Reservation{DateTo: planned, IsClosed: true, UpdatedAt: &time.Time{}, ActualReturnDate: tp(returnedAt)},
			returnedAt,
		},
		{
			"open with actual return uses the return",
			billing.Reservation{DateTo: planned, ActualReturnDate: tp(returnedAt)},
			returnedAt,
		},
		{
			"still open forecasts the planned end",
			billing.Reservation{DateTo: planned},
			planned,
		},
		{
			"updatedAt alone is not a closing trigger",
			billing.Reservation{DateTo: planned, UpdatedAt: tp(closedAt)},
			planned,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := billing.ResolveEndDate(tc.r); !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConcluded(t *testing.T) {
	if (billing.Reservation{}).Concluded() {
		t.Error("open reservation reported concluded")
	}
	if !(billing.Reservation{IsClosed: true}).Concluded() {
		t.Error("closed reservation reported open")
	}
	if !(billing.Reservation{ActualReturnDate: tp(midnight(2024, time.March, 15))}).Concluded() {
		t.Error("returned reservation reported open")
	}
}
