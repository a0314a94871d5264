package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/model"
)

// Cache TTLs for read-through keys.
const (
	eventTTL     = 5 * time.Minute
	eventsTTL    = 5 * time.Minute
	analyticsTTL = 10 * time.Minute
)

// EventService orchestrates event management and cached reads.
type EventService struct {
	events EventStore
	cache  cache.Store
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, c cache.Store) *EventService {
	return &EventService{events: events, cache: c}
}

// Create validates the request and delegates to the repository.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Venue = strings.TrimSpace(req.Venue)
	if req.Name == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if req.Venue == "" {
		return nil, fmt.Errorf("event venue is required")
	}
	if req.StartsAt.IsZero() {
		return nil, fmt.Errorf("event start time is required")
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	if req.Capacity > 100_000 {
		return nil, fmt.Errorf("capacity cannot exceed 100,000")
	}

	event, err := s.events.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Delete(ctx, cache.EventsKey, cache.AnalyticsKey); cerr != nil {
		log.Printf("cache invalidation failed after event create: %v", cerr)
	}
	return event, nil
}

// List returns all events, read through the cache.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if hit, err := s.cache.Get(ctx, cache.EventsKey, &events); err == nil && hit {
		return events, nil
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, cache.EventsKey, events, eventsTTL); cerr != nil {
		log.Printf("cache set failed for %s: %v", cache.EventsKey, cerr)
	}
	return events, nil
}

// Get returns a single event by ID, read through the cache.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}

	key := cache.EventKey(id)
	var cached model.Event
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, key, event, eventTTL); cerr != nil {
		log.Printf("cache set failed for %s: %v", key, cerr)
	}
	return event, nil
}

// Update applies event changes and reports waitlisted users promoted into
// seats freed by a capacity raise. Lowering capacity below the confirmed
// booking count is rejected by the repository.
func (s *EventService) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, []*model.Booking, error) {
	if id == "" {
		return nil, nil, fmt.Errorf("event id is required")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, nil, fmt.Errorf("capacity must be a positive integer")
	}

	event, promoted, err := s.events.Update(ctx, id, req)
	if err != nil {
		return nil, nil, err
	}

	// Fires after commit; a capacity raise that promoted users changed
	// booked_count in the same transaction.
	if cerr := s.cache.CapacityChanged(ctx, event.ID); cerr != nil {
		log.Printf("cache invalidation failed for event %s: %v", event.ID, cerr)
	}
	for _, b := range promoted {
		if cerr := s.cache.UserBookingsChanged(ctx, b.UserID); cerr != nil {
			log.Printf("cache invalidation failed for user %s: %v", b.UserID, cerr)
		}
	}
	return event, promoted, nil
}

// Analytics returns booking totals and utilization, read through the cache.
func (s *EventService) Analytics(ctx context.Context) (*model.Analytics, error) {
	var cached model.Analytics
	if hit, err := s.cache.Get(ctx, cache.AnalyticsKey, &cached); err == nil && hit {
		return &cached, nil
	}

	analytics, err := s.events.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, cache.AnalyticsKey, analytics, analyticsTTL); cerr != nil {
		log.Printf("cache set failed for %s: %v", cache.AnalyticsKey, cerr)
	}
	return analytics, nil
}
