// Package store provides an in-memory ReservationSource for tests,
// scenarios, and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/fleetrent/commission-engine/billing"
)

// =============================================================================
// MEMORY STORE - In-memory reservation snapshot cache
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	reservations map[billing.ReservationID]billing.Reservation
}

var _ billing.ReservationSource = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{reservations: make(map[billing.ReservationID]billing.Reservation)}
}

// Upsert inserts or replaces a reservation snapshot.
func (m *Memory) Upsert(_ context.Context, r billing.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
	return nil
}

// Delete removes a reservation. Deleting an unknown id is a no-op.
func (m *Memory) Delete(_ context.Context, id billing.ReservationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reservations, id)
	return nil
}

// Reset drops every reservation.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = make(map[billing.ReservationID]billing.Reservation)
	return nil
}

// Reservations returns a copy of the snapshot ordered by id, so repeated
// calls feed the engine identical, deterministic input.
func (m *Memory) Reservations(_ context.Context) ([]billing.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]billing.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
