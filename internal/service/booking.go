package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/model"
	"github.com/tanmay-ghai/ticketly/internal/repository"
)

// BookingService orchestrates ticket booking and cancellation.
type BookingService struct {
	bookings BookingStore
	users    UserStore
	cache    cache.Store
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(bookings BookingStore, users UserStore, c cache.Store) *BookingService {
	return &BookingService{bookings: bookings, users: users, cache: c}
}

// Book reserves a seat and creates a confirmed booking for the user.
// On a denial (repository.ErrEventFull) no state changed and no cache
// invalidation fires; the caller may offer a waitlist join instead.
func (s *BookingService) Book(ctx context.Context, eventID, userID string) (*model.Booking, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	booking, err := s.bookings.Book(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	// The transaction committed above; evicting earlier would let a
	// concurrent reader cache pre-commit state.
	s.invalidate(ctx, booking.EventID, booking.UserID)
	return booking, nil
}

// Cancel cancels a confirmed booking and reports the waitlisted user
// promoted into the freed slot, if any. Cancelling twice is an error
// (repository.ErrAlreadyCancelled), never a silent no-op.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (cancelled, promoted *model.Booking, err error) {
	if bookingID == "" {
		return nil, nil, fmt.Errorf("booking id is required")
	}

	cancelled, promoted, err = s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	// One committed transaction, one capacity invalidation: the release
	// and the promotion change the same event's state together.
	s.invalidate(ctx, cancelled.EventID, cancelled.UserID)
	if promoted != nil {
		if cerr := s.cache.UserBookingsChanged(ctx, promoted.UserID); cerr != nil {
			log.Printf("cache invalidation failed for user %s: %v", promoted.UserID, cerr)
		}
	}
	return cancelled, promoted, nil
}

// GetBooking returns a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("booking id is required")
	}
	return s.bookings.GetByID(ctx, id)
}

// invalidate fires the capacity-changed hook and evicts the acting user's
// booking history. Cache failures are logged, not surfaced: the database
// already committed and the booking outcome stands.
func (s *BookingService) invalidate(ctx context.Context, eventID, userID string) {
	if err := s.cache.CapacityChanged(ctx, eventID); err != nil {
		log.Printf("cache invalidation failed for event %s: %v", eventID, err)
	}
	if err := s.cache.UserBookingsChanged(ctx, userID); err != nil {
		log.Printf("cache invalidation failed for user %s: %v", userID, err)
	}
}
