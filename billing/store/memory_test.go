package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
	"github.com/fleetrent/commission-engine/billing/store"
)

func sample(id string) billing.Reservation {
	from := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	return billing.Reservation{
		ID:          billing.ReservationID(id),
		SupplierID:  "supplier-1",
		DateFrom:    from,
		DateTo:      from.Add(15 * 24 * time.Hour),
		AgreedPrice: decimal.NewFromInt(1000),
		Status:      billing.StatusActive,
	}
}

func TestMemory_UpsertAndListOrdered(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	for _, id := range []string{"res-c", "res-a", "res-b"} {
		if err := m.Upsert(ctx, sample(id)); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	got, err := m.Reservations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 reservations, got %d", len(got))
	}
	for i, want := range []billing.ReservationID{"res-a", "res-b", "res-c"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestMemory_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	r := sample("res-1")
	if err := m.Upsert(ctx, r); err != nil {
		t.Fatal(err)
	}
	r.Status = billing.StatusCompleted
	r.IsClosed = true
	if err := m.Upsert(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, _ := m.Reservations(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(got))
	}
	if got[0].Status != billing.StatusCompleted || !got[0].IsClosed {
		t.Errorf("upsert did not replace: %+v", got[0])
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	m.Upsert(ctx, sample("res-1"))
	m.Upsert(ctx, sample("res-2"))

	if err := m.Delete(ctx, "res-1"); err != nil {
		t.Fatal(err)
	}
	// Deleting an unknown id is a no-op.
	if err := m.Delete(ctx, "res-missing"); err != nil {
		t.Fatal(err)
	}

	got, _ := m.Reservations(ctx)
	if len(got) != 1 || got[0].ID != "res-2" {
		t.Errorf("unexpected contents after delete: %+v", got)
	}
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	m.Upsert(ctx, sample("res-1"))
	if err := m.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	got, _ := m.Reservations(ctx)
	if len(got) != 0 {
		t.Errorf("expected empty store after reset, got %d", len(got))
	}

	// The store stays usable after a reset.
	m.Upsert(ctx, sample("res-2"))
	got, _ = m.Reservations(ctx)
	if len(got) != 1 {
		t.Errorf("expected 1 reservation after re-insert, got %d", len(got))
	}
}
