package service

import (
	"context"
	"testing"
	"time"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/model"
)

func TestListReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeEventStore{events: []model.Event{{ID: "e1", Name: "GopherCon"}}}
	c := newSpyCache()
	svc := NewEventService(store, c)

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List (cached): %v", err)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", store.listCalls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != "e1" {
		t.Fatalf("cached read mismatch: first=%v second=%v", first, second)
	}
}

func TestUpdateEvictsCapacityKeys(t *testing.T) {
	ctx := context.Background()
	store := &fakeEventStore{
		events:  []model.Event{{ID: "e1"}},
		updated: &model.Event{ID: "e1", Capacity: 20, BookedCount: 10},
	}
	c := newSpyCache()
	svc := NewEventService(store, c)

	// Warm the list cache, then update.
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	newCap := 20
	if _, _, err := svc.Update(ctx, "e1", model.UpdateEventRequest{Capacity: &newCap}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(c.capacityChanged) != 1 || c.capacityChanged[0] != "e1" {
		t.Fatalf("expected one capacity invalidation for e1, got %v", c.capacityChanged)
	}
	if _, ok := c.data[cache.EventsKey]; ok {
		t.Fatal("events list key should be evicted after update")
	}
}

func TestUpdatePromotedUsersInvalidated(t *testing.T) {
	ctx := context.Background()
	store := &fakeEventStore{
		updated: &model.Event{ID: "e1", Capacity: 3, BookedCount: 3},
		promoted: []*model.Booking{
			{ID: "b1", UserID: "u1", EventID: "e1"},
			{ID: "b2", UserID: "u2", EventID: "e1"},
		},
	}
	c := newSpyCache()
	svc := NewEventService(store, c)

	newCap := 3
	_, promoted, err := svc.Update(ctx, "e1", model.UpdateEventRequest{Capacity: &newCap})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(promoted) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(promoted))
	}
	if len(c.userChanged) != 2 {
		t.Fatalf("expected booking-history eviction for each promoted user, got %v", c.userChanged)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(&fakeEventStore{}, newSpyCache())

	cases := []model.CreateEventRequest{
		{Name: "", Venue: "Hall A", StartsAt: time.Now(), Capacity: 10},
		{Name: "Meetup", Venue: "", StartsAt: time.Now(), Capacity: 10},
		{Name: "Meetup", Venue: "Hall A", Capacity: 10},
		{Name: "Meetup", Venue: "Hall A", StartsAt: time.Now(), Capacity: 0},
		{Name: "Meetup", Venue: "Hall A", StartsAt: time.Now(), Capacity: -3},
		{Name: "Meetup", Venue: "Hall A", StartsAt: time.Now(), Capacity: 200_000},
	}
	for i, req := range cases {
		if _, err := svc.Create(ctx, req); err == nil {
			t.Errorf("case %d: expected validation error for %+v", i, req)
		}
	}
}

func TestUpdateRejectsNonPositiveCapacity(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(&fakeEventStore{}, newSpyCache())

	zero := 0
	if _, _, err := svc.Update(ctx, "e1", model.UpdateEventRequest{Capacity: &zero}); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}
