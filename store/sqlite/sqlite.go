/*
Package sqlite provides a SQLite-backed reservation snapshot store.

PURPOSE:
  Persists the reservation snapshots the billing engine consumes and
  implements billing.ReservationSource. Commission installments are NEVER
  persisted here - they are recomputed from scratch on every engine call;
  their deterministic ids exist so a downstream consumer can upsert
  idempotently into its own store.

SCHEMA:
  reservations: one row per contract snapshot. Instants are stored as
  epoch milliseconds (the upstream wire format); the engine re-anchors
  them to its fixed zone, so no zone information is lost in the round
  trip. Nullable columns model optional instants - no zero sentinels.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time.

USAGE:
  store, err := sqlite.New("./data/commissions.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - billing/types.go: ReservationSource contract
  - billing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
)

// Store persists reservation snapshots in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ billing.ReservationSource = (*Store)(nil)

// New creates a store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		date_from INTEGER NOT NULL,
		date_to INTEGER NOT NULL,
		period_type_days INTEGER NOT NULL DEFAULT 0,
		agreed_price TEXT NOT NULL,
		status TEXT NOT NULL,
		is_closed INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER,
		actual_return_date INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_reservations_supplier
		ON reservations(supplier_id);
	CREATE INDEX IF NOT EXISTS idx_reservations_status
		ON reservations(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WRITES
// =============================================================================

// Upsert inserts or replaces a reservation snapshot.
func (s *Store) Upsert(ctx context.Context, r billing.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reservations
			(id, supplier_id, date_from, date_to, period_type_days,
			 agreed_price, status, is_closed, updated_at, actual_return_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			supplier_id = excluded.supplier_id,
			date_from = excluded.date_from,
			date_to = excluded.date_to,
			period_type_days = excluded.period_type_days,
			agreed_price = excluded.agreed_price,
			status = excluded.status,
			is_closed = excluded.is_closed,
			updated_at = excluded.updated_at,
			actual_return_date = excluded.actual_return_date`,
		string(r.ID), string(r.SupplierID),
		r.DateFrom.UnixMilli(), r.DateTo.UnixMilli(), r.PeriodTypeDays,
		r.AgreedPrice.String(), string(r.Status), boolToInt(r.IsClosed),
		optionalMillis(r.UpdatedAt), optionalMillis(r.ActualReturnDate),
	)
	if err != nil {
		return fmt.Errorf("upsert reservation %s: %w", r.ID, err)
	}
	return nil
}

// Delete removes a reservation snapshot. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id billing.ReservationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}
	return nil
}

// Reset drops every reservation (scenario loading, dev only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reservations`); err != nil {
		return fmt.Errorf("reset reservations: %w", err)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

const selectColumns = `
	SELECT id, supplier_id, date_from, date_to, period_type_days,
	       agreed_price, status, is_closed, updated_at, actual_return_date
	FROM reservations`

// Get returns one reservation, or nil when absent.
func (s *Store) Get(ctx context.Context, id billing.ReservationID) (*billing.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, string(id))
	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return &r, nil
}

// Reservations returns the full snapshot ordered by id.
// Implements billing.ReservationSource.
func (s *Store) Reservations(ctx context.Context) ([]billing.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []billing.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// ROW MAPPING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (billing.Reservation, error) {
	var (
		r          billing.Reservation
		id         string
		supplier   string
		from, to   int64
		price      string
		status     string
		closed     int
		updated    sql.NullInt64
		actualBack sql.NullInt64
	)
	err := row.Scan(&id, &supplier, &from, &to, &r.PeriodTypeDays,
		&price, &status, &closed, &updated, &actualBack)
	if err != nil {
		return billing.Reservation{}, err
	}

	agreed, err := decimal.NewFromString(price)
	if err != nil {
		return billing.Reservation{}, fmt.Errorf("bad agreed_price %q: %w", price, err)
	}

	r.ID = billing.ReservationID(id)
	r.SupplierID = billing.SupplierID(supplier)
	r.DateFrom = time.UnixMilli(from).UTC()
	r.DateTo = time.UnixMilli(to).UTC()
	r.AgreedPrice = agreed
	r.Status = billing.Status(status)
	r.IsClosed = closed != 0
	r.UpdatedAt = millisToTime(updated)
	r.ActualReturnDate = millisToTime(actualBack)
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func optionalMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func millisToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
