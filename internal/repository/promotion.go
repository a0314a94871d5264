package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tanmay-ghai/ticketly/internal/model"
)

// promoteHead converts the head of the event's waitlist into a confirmed
// booking. It must be called with the event row lock already held and with
// a slot known to be free: the booking is inserted without re-running the
// capacity check, and booked_count is re-incremented to account for it.
//
// Returns nil when the waitlist is empty. Each call consumes at most one
// slot and promotes at most one entry; it never cascades. Any failure
// aborts the caller's transaction, so the queue pop and the booking insert
// are all-or-nothing.
func promoteHead(ctx context.Context, tx pgx.Tx, eventID string) (*model.Booking, error) {
	var entryID, userID string
	err := tx.QueryRow(ctx,
		`SELECT id, user_id
		 FROM waitlists
		 WHERE event_id = $1
		 ORDER BY position
		 LIMIT 1`,
		eventID,
	).Scan(&entryID, &userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("peek waitlist head: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM waitlists WHERE id = $1`, entryID)
	if err != nil {
		return nil, fmt.Errorf("remove waitlist entry: %w", err)
	}
	if tag.RowsAffected() != 1 {
		// The entry vanished while we hold the event lock; only a bug can
		// cause that, since waitlist rows are touched exclusively under it.
		return nil, &InvariantError{EventID: eventID, Detail: fmt.Sprintf("waitlist entry %s disappeared during promotion", entryID)}
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
		return nil, fmt.Errorf("insert promoted booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET booked_count = booked_count + 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("re-increment booked_count: %w", err)
	}
	return booking, nil
}
