// Package repository implements all database access for the ticketing
// backend. It uses pgx directly (no ORM) for transparency and performance.
//
// Every capacity-affecting operation runs inside an explicit transaction
// that first acquires an exclusive row-level lock on the event via
// SELECT ... FOR UPDATE. The lock serialises all reserve/release/promote
// sequences for one event across every replica of the service, while
// operations on different events proceed in parallel. Nothing is visible
// to other transactions until commit.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgLockNotAvailable is the SQLSTATE raised when lock_timeout expires
// while waiting on the event row.
const pgLockNotAvailable = "55P03"

// CapacityLedger owns the per-event seat counters. All methods operate on
// an open transaction and assume (or acquire) the event row lock.
type CapacityLedger struct {
	lockTimeout time.Duration
}

// NewCapacityLedger constructs a CapacityLedger. lockTimeout bounds how long
// a transaction waits for a contended event row before failing with
// ErrLockTimeout.
func NewCapacityLedger(lockTimeout time.Duration) *CapacityLedger {
	return &CapacityLedger{lockTimeout: lockTimeout}
}

// beginLocked applies the lock timeout to the transaction. SET LOCAL scopes
// it to the transaction, so the setting dies with commit or rollback.
func (l *CapacityLedger) beginLocked(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.lockTimeout.Milliseconds()))
	if err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}
	return nil
}

// lockEvent acquires the exclusive row lock on the event and returns the
// counters read under it. Any concurrent transaction attempting the same
// lock blocks until this one commits or rolls back; if the wait exceeds
// the lock timeout, ErrLockTimeout is returned.
func (l *CapacityLedger) lockEvent(ctx context.Context, tx pgx.Tx, eventID string) (capacity, bookedCount int, err error) {
	err = tx.QueryRow(ctx,
		`SELECT capacity, booked_count
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		eventID,
	).Scan(&capacity, &bookedCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return 0, 0, ErrLockTimeout
		}
		return 0, 0, fmt.Errorf("lock event row: %w", err)
	}
	return capacity, bookedCount, nil
}

// Reserve attempts to take one seat for the event. It acquires the event
// row lock, grants iff booked_count < capacity, and increments the counter
// in place. A denial leaves the counters untouched.
func (l *CapacityLedger) Reserve(ctx context.Context, tx pgx.Tx, eventID string) (granted bool, err error) {
	capacity, bookedCount, err := l.lockEvent(ctx, tx, eventID)
	if err != nil {
		return false, err
	}
	if bookedCount >= capacity {
		return false, nil
	}
	if err := l.increment(ctx, tx, eventID); err != nil {
		return false, err
	}
	return true, nil
}

// Release returns one seat for the event. It acquires the event row lock
// and decrements booked_count; freedSlot reports whether a seat became
// available for a waiting user. A non-positive booked_count means the
// counter and the booking rows have diverged, which is a bug, so the
// transaction is aborted with an InvariantError rather than clamped.
func (l *CapacityLedger) Release(ctx context.Context, tx pgx.Tx, eventID string) (freedSlot bool, err error) {
	capacity, bookedCount, err := l.lockEvent(ctx, tx, eventID)
	if err != nil {
		return false, err
	}
	if bookedCount <= 0 {
		return false, &InvariantError{EventID: eventID, Detail: fmt.Sprintf("release with booked_count=%d", bookedCount)}
	}
	if err := l.decrement(ctx, tx, eventID); err != nil {
		return false, err
	}
	return bookedCount-1 < capacity, nil
}

func (l *CapacityLedger) increment(ctx context.Context, tx pgx.Tx, eventID string) error {
	_, err := tx.Exec(ctx,
		`UPDATE events SET booked_count = booked_count + 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("increment booked_count: %w", err)
	}
	return nil
}

func (l *CapacityLedger) decrement(ctx context.Context, tx pgx.Tx, eventID string) error {
	_, err := tx.Exec(ctx,
		`UPDATE events SET booked_count = booked_count - 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("decrement booked_count: %w", err)
	}
	return nil
}
