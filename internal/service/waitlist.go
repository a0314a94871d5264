package service

import (
	"context"
	"fmt"

	"github.com/tanmay-ghai/ticketly/internal/model"
	"github.com/tanmay-ghai/ticketly/internal/repository"
)

// WaitlistService orchestrates waitlist membership. Joining or leaving a
// waitlist does not change booked_count, so no capacity invalidation fires
// here; promotions are part of the cancellation transaction and invalidate
// through the booking service.
type WaitlistService struct {
	waitlists WaitlistStore
	users     UserStore
}

// NewWaitlistService constructs a WaitlistService with its dependencies.
func NewWaitlistService(waitlists WaitlistStore, users UserStore) *WaitlistService {
	return &WaitlistService{waitlists: waitlists, users: users}
}

// Join adds the user to the event's waitlist. The repository re-validates
// capacity under the event lock, so joining a non-full event fails with
// repository.ErrEventNotFull even if the caller just saw a denial.
func (s *WaitlistService) Join(ctx context.Context, eventID, userID string) (*model.WaitlistEntry, error) {
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
	return s.waitlists.Join(ctx, eventID, userID)
}

// Leave removes the user from the event's waitlist.
func (s *WaitlistService) Leave(ctx context.Context, eventID, userID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	return s.waitlists.Leave(ctx, eventID, userID)
}

// Position returns the user's live rank in the event's waitlist.
func (s *WaitlistService) Position(ctx context.Context, eventID, userID string) (*model.WaitlistPositionResponse, error) {
	if eventID == "" || userID == "" {
		return nil, fmt.Errorf("event id and user_id are required")
	}
	return s.waitlists.Position(ctx, eventID, userID)
}

// ListByEvent returns the event's waitlist in promotion order.
func (s *WaitlistService) ListByEvent(ctx context.Context, eventID string) ([]model.WaitlistEntry, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	return s.waitlists.ListByEvent(ctx, eventID)
}

// ListByUser returns every waitlist the user is on.
func (s *WaitlistService) ListByUser(ctx context.Context, userID string) ([]model.WaitlistEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	return s.waitlists.ListByUser(ctx, userID)
}
