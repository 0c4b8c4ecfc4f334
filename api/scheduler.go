/*
scheduler.go - Automated payout computation

PURPOSE:
  Periodically recomputes the current payout month (whose service month
  is the previous calendar month) so the dashboard's "latest run" view
  stays warm without clients triggering full computations.

DESIGN:
  - Background goroutine with a configurable check interval
  - Each tick reloads the snapshot and recomputes from scratch; the
    engine is stateless, so a tick is always safe to repeat
  - Keeps only the most recent result in memory; installments are never
    persisted

USAGE:
  scheduler := NewPayoutScheduler(store, engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: LatestPayout endpoint
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fleetrent/commission-engine/billing"
	"github.com/fleetrent/commission-engine/store/sqlite"
)

// PayoutScheduler recomputes the current payout month on an interval.
type PayoutScheduler struct {
	Store         *sqlite.Store
	Engine        *billing.Engine
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	latest     *billing.Result
	computedAt time.Time
}

// NewPayoutScheduler creates a scheduler with a 1 hour check interval.
func NewPayoutScheduler(store *sqlite.Store, engine *billing.Engine) *PayoutScheduler {
	return &PayoutScheduler{
		Store:         store,
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler and runs one computation immediately.
func (ps *PayoutScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)
	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler and waits for the worker to exit.
func (ps *PayoutScheduler) Stop() {
	ps.mu.Lock()
	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
	}
	ps.mu.Unlock()
	ps.wg.Wait()
}

// Latest returns the most recent run, its computation time, and whether
// a run has happened yet.
func (ps *PayoutScheduler) Latest() (billing.Result, time.Time, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.latest == nil {
		return billing.Result{}, time.Time{}, false
	}
	return *ps.latest, ps.computedAt, true
}

func (ps *PayoutScheduler) run() {
	defer ps.wg.Done()

	ps.tick()
	for {
		select {
		case <-ps.ticker.C:
			ps.tick()
		case <-ps.stop:
			log.Println("[Scheduler] Stopped")
			return
		}
	}
}

// tick computes the payout month containing "now" in the engine zone:
// commissions paid this month cover last month's activity.
func (ps *PayoutScheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	month := ps.Engine.Calendar.YearMonthOf(time.Now()).String()
	reservations, err := ps.Store.Reservations(ctx)
	if err != nil {
		log.Printf("[Scheduler] Failed to load reservations: %v", err)
		return
	}

	result := ps.Engine.Compute(month, reservations, billing.Filter{})

	ps.mu.Lock()
	ps.latest = &result
	ps.computedAt = time.Now()
	ps.mu.Unlock()

	log.Printf("[Scheduler] Payout %s: %d installments, total %s",
		month, len(result.Installments), result.Total.String())
}
