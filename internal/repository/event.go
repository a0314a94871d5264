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

// EventRepository handles persistence for events.
type EventRepository struct {
	db     *pgxpool.Pool
	ledger *CapacityLedger
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool, ledger *CapacityLedger) *EventRepository {
	return &EventRepository{db: db, ledger: ledger}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		BookedCount: 0,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, name, venue, starts_at, capacity, booked_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Name, event.Venue, event.StartsAt, event.Capacity, event.BookedCount, event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// List returns all events ordered by creation time descending.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, venue, starts_at, capacity, booked_count, created_at
		 FROM events
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt, &e.Capacity, &e.BookedCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT id, name, venue, starts_at, capacity, booked_count, created_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt, &e.Capacity, &e.BookedCount, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// Update applies metadata and capacity changes under the event row lock.
//
// Lowering capacity below the current confirmed booking count is rejected
// with ErrCapacityBelowBooked: bookings are never forcibly cancelled, and
// letting booked_count exceed capacity would break the ledger. Raising
// capacity frees seats, so the waitlist is drained FIFO into the new slots
// before the transaction commits; promotedCount reports how many users
// were confirmed that way.
func (r *EventRepository) Update(ctx context.Context, id string, req model.UpdateEventRequest) (event *model.Event, promoted []*model.Booking, err error) {
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

	capacity, bookedCount, err := r.ledger.lockEvent(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	if req.Capacity != nil {
		if *req.Capacity < bookedCount {
			err = ErrCapacityBelowBooked
			return nil, nil, err
		}
		capacity = *req.Capacity
	}

	_, err = tx.Exec(ctx,
		`UPDATE events
		 SET name      = COALESCE($2, name),
		     venue     = COALESCE($3, venue),
		     starts_at = COALESCE($4, starts_at),
		     capacity  = $5
		 WHERE id = $1`,
		id, req.Name, req.Venue, req.StartsAt, capacity,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update event: %w", err)
	}

	// Drain the waitlist into any newly freed seats, oldest entry first.
	for bookedCount < capacity {
		var b *model.Booking
		b, err = promoteHead(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		if b == nil {
			break
		}
		promoted = append(promoted, b)
		bookedCount++
	}

	event = &model.Event{ID: id}
	err = tx.QueryRow(ctx,
		`SELECT name, venue, starts_at, capacity, booked_count, created_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&event.Name, &event.Venue, &event.StartsAt, &event.Capacity, &event.BookedCount, &event.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("reload event: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return event, promoted, nil
}

// Analytics computes booking totals and per-event utilization.
func (r *EventRepository) Analytics(ctx context.Context) (*model.Analytics, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, booked_count, capacity
		 FROM events
		 ORDER BY booked_count DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("event utilization: %w", err)
	}
	defer rows.Close()

	var utilization []model.EventUtilization
	for rows.Next() {
		var u model.EventUtilization
		if err := rows.Scan(&u.EventID, &u.EventName, &u.BookedCount, &u.Capacity); err != nil {
			return nil, fmt.Errorf("scan utilization: %w", err)
		}
		if u.Capacity > 0 {
			u.UtilizationPercent = float64(u.BookedCount) / float64(u.Capacity) * 100
		}
		utilization = append(utilization, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	popular := utilization
	if len(popular) > 5 {
		popular = popular[:5]
	}
	return &model.Analytics{
		TotalBookings: total,
		PopularEvents: popular,
		Utilization:   utilization,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
