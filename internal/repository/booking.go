package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanmay-ghai/ticketly/internal/model"
)

// BookingRepository handles persistence and transactional orchestration for
// bookings: seat reservation on creation, and release plus waitlist
// promotion on cancellation.
type BookingRepository struct {
	db     *pgxpool.Pool
	ledger *CapacityLedger
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool, ledger *CapacityLedger) *BookingRepository {
	return &BookingRepository{db: db, ledger: ledger}
}

// Book creates a confirmed booking for the user, reserving one seat.
//
// A naive read-then-write on booked_count lets two concurrent requests both
// observe a free seat and both insert, overbooking the event. The ledger's
// SELECT ... FOR UPDATE serialises the check-then-act against all other
// transactions touching the same event, so at most capacity bookings can
// ever be confirmed. Requests for other events are unaffected.
//
// Returns ErrEventFull when no seat remains (the caller may offer a
// waitlist join instead), ErrAlreadyBooked when the user already holds a
// confirmed booking for this event.
func (r *BookingRepository) Book(ctx context.Context, eventID, userID string) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = r.ledger.beginLocked(ctx, tx); err != nil {
		return nil, err
	}

	granted, err := r.ledger.Reserve(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	// Duplicate check runs under the event lock regardless of the grant so
	// a re-book by an already-confirmed user reports the precise error. On
	// any error path the rollback also undoes the reservation.
	var hasConfirmed bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM bookings
		    WHERE event_id = $1 AND user_id = $2 AND status = 'confirmed'
		 )`,
		eventID, userID,
	).Scan(&hasConfirmed)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if hasConfirmed {
		err = ErrAlreadyBooked
		return nil, err
	}
	if !granted {
		err = ErrEventFull
		return nil, err
	}

	booking := &model.Booking{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    model.StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, event_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		booking.ID, booking.UserID, booking.EventID, booking.Status, booking.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return booking, nil
}

// Cancel moves a confirmed booking to cancelled, releases its seat, and
// promotes the head of the waitlist into the freed slot — all inside one
// transaction, so a failure at any step rolls every effect back.
//
// Cancel is not idempotent: a second cancel returns ErrAlreadyCancelled.
// The returned promoted booking is nil when the waitlist was empty.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID string) (cancelled, promoted *model.Booking, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = r.ledger.beginLocked(ctx, tx); err != nil {
		return nil, nil, err
	}

	// Resolve the event first; the status check happens only after the
	// event lock is held, so two racing cancels of the same booking
	// serialise and the loser sees the cancelled status.
	booking := &model.Booking{ID: bookingID}
	err = tx.QueryRow(ctx,
		`SELECT user_id, event_id, status, created_at
		 FROM bookings WHERE id = $1`,
		bookingID,
	).Scan(&booking.UserID, &booking.EventID, &booking.Status, &booking.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		} else {
			err = fmt.Errorf("get booking: %w", err)
		}
		return nil, nil, err
	}

	if _, _, err = r.ledger.lockEvent(ctx, tx, booking.EventID); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx,
		`UPDATE bookings
		 SET status = 'cancelled', cancelled_at = $2
		 WHERE id = $1 AND status = 'confirmed'`,
		bookingID, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrAlreadyCancelled
		return nil, nil, err
	}
	booking.Status = model.StatusCancelled
	booking.CancelledAt = &now

	freed, err := r.ledger.Release(ctx, tx, booking.EventID)
	if err != nil {
		return nil, nil, err
	}
	if freed {
		promoted, err = promoteHead(ctx, tx, booking.EventID)
		if err != nil {
			return nil, nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return booking, promoted, nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b := &model.Booking{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT user_id, event_id, status, created_at, cancelled_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(&b.UserID, &b.EventID, &b.Status, &b.CreatedAt, &b.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListByUser returns the user's booking history, newest first, with event
// metadata joined in.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]model.BookingHistoryItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, b.event_id, b.status, b.created_at, b.cancelled_at,
		        e.name, e.venue, e.starts_at
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var items []model.BookingHistoryItem
	for rows.Next() {
		var it model.BookingHistoryItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.EventID, &it.Status, &it.CreatedAt, &it.CancelledAt,
			&it.EventName, &it.EventVenue, &it.EventTime); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountConfirmed returns the number of confirmed bookings for an event.
// Used by tests and analytics to check the counter against the rows.
func (r *BookingRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status = 'confirmed'`,
		eventID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count confirmed bookings: %w", err)
	}
	return n, nil
}
