// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer. Services also own the
// cache contract: invalidation hooks fire only after a repository call has
// committed, and never on a denied or failed operation.
package service

import (
	"context"

	"github.com/tanmay-ghai/ticketly/internal/model"
)

// BookingStore is the persistence surface the booking service depends on.
// Implementations must make Book and Cancel fully transactional: a denial
// or failure leaves no partial state behind.
type BookingStore interface {
	Book(ctx context.Context, eventID, userID string) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID string) (cancelled, promoted *model.Booking, err error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.BookingHistoryItem, error)
}

// WaitlistStore is the persistence surface the waitlist service depends on.
type WaitlistStore interface {
	Join(ctx context.Context, eventID, userID string) (*model.WaitlistEntry, error)
	Leave(ctx context.Context, eventID, userID string) error
	Position(ctx context.Context, eventID, userID string) (*model.WaitlistPositionResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.WaitlistEntry, error)
	ListByUser(ctx context.Context, userID string) ([]model.WaitlistEntry, error)
}

// EventStore is the persistence surface the event service depends on.
type EventStore interface {
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, []*model.Booking, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

// UserStore is the user directory surface consumed by all services.
type UserStore interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
}
