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

// WaitlistRepository handles persistence for per-event FIFO waitlists.
type WaitlistRepository struct {
	db     *pgxpool.Pool
	ledger *CapacityLedger
}

// NewWaitlistRepository constructs a WaitlistRepository.
func NewWaitlistRepository(db *pgxpool.Pool, ledger *CapacityLedger) *WaitlistRepository {
	return &WaitlistRepository{db: db, ledger: ledger}
}

// Join appends the user to the event's waitlist.
//
// The capacity check runs under the event row lock, atomically with the
// insert, rather than trusting the caller's earlier "event is full"
// observation: a seat freed between the denied booking and the join makes
// Join fail with ErrEventNotFull so the user books the free seat directly.
//
// Positions are assigned max(position)+1 per event under the same lock,
// which keeps them unique and join-ordered. They are never renumbered on
// removal; relative order is all that matters.
func (r *WaitlistRepository) Join(ctx context.Context, eventID, userID string) (*model.WaitlistEntry, error) {
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

	capacity, bookedCount, err := r.ledger.lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

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

	var alreadyWaiting bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM waitlists WHERE event_id = $1 AND user_id = $2
		 )`,
		eventID, userID,
	).Scan(&alreadyWaiting)
	if err != nil {
		return nil, fmt.Errorf("check existing waitlist entry: %w", err)
	}
	if alreadyWaiting {
		err = ErrAlreadyWaitlisted
		return nil, err
	}

	if bookedCount < capacity {
		err = ErrEventNotFull
		return nil, err
	}

	var maxPosition int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM waitlists WHERE event_id = $1`,
		eventID,
	).Scan(&maxPosition)
	if err != nil {
		return nil, fmt.Errorf("next waitlist position: %w", err)
	}

	entry := &model.WaitlistEntry{
		ID:       uuid.New().String(),
		UserID:   userID,
		EventID:  eventID,
		Position: maxPosition + 1,
		JoinedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO waitlists (id, user_id, event_id, position, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.EventID, entry.Position, entry.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert waitlist entry: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return entry, nil
}

// Leave removes the user's waitlist entry for the event. The event lock is
// taken first so a leave cannot race a promotion popping the same entry.
func (r *WaitlistRepository) Leave(ctx context.Context, eventID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = r.ledger.beginLocked(ctx, tx); err != nil {
		return err
	}
	if _, _, err = r.ledger.lockEvent(ctx, tx, eventID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM waitlists WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotWaitlisted
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Position returns the user's live 1-based rank in the event's waitlist
// along with the total number of waiting users. Stored positions are
// monotonic but sparse after removals, so rank is computed by counting
// entries at or below the user's position.
func (r *WaitlistRepository) Position(ctx context.Context, eventID, userID string) (*model.WaitlistPositionResponse, error) {
	var rank, total int
	err := r.db.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM waitlists w2
		     WHERE w2.event_id = w.event_id AND w2.position <= w.position),
		    (SELECT COUNT(*) FROM waitlists w3 WHERE w3.event_id = w.event_id)
		 FROM waitlists w
		 WHERE w.event_id = $1 AND w.user_id = $2`,
		eventID, userID,
	).Scan(&rank, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotWaitlisted
		}
		return nil, fmt.Errorf("waitlist position: %w", err)
	}
	return &model.WaitlistPositionResponse{Position: rank, TotalInWaitlist: total}, nil
}

// ListByEvent returns the event's waitlist in promotion order.
func (r *WaitlistRepository) ListByEvent(ctx context.Context, eventID string) ([]model.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, event_id, position, joined_at
		 FROM waitlists
		 WHERE event_id = $1
		 ORDER BY position`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByUser returns every waitlist the user is on, oldest first.
func (r *WaitlistRepository) ListByUser(ctx context.Context, userID string) ([]model.WaitlistEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, event_id, position, joined_at
		 FROM waitlists
		 WHERE user_id = $1
		 ORDER BY joined_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user waitlists: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]model.WaitlistEntry, error) {
	var entries []model.WaitlistEntry
	for rows.Next() {
		var e model.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventID, &e.Position, &e.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
