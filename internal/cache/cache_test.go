package cache

import (
	"context"
	"testing"
)

func TestKeys(t *testing.T) {
	if got := EventKey("abc"); got != "event:abc" {
		t.Fatalf("EventKey = %q", got)
	}
	if got := UserBookingsKey("u1"); got != "user:u1:bookings" {
		t.Fatalf("UserBookingsKey = %q", got)
	}
	if EventsKey != "events:all" || AnalyticsKey != "analytics:data" {
		t.Fatalf("aggregate keys changed: %q %q", EventsKey, AnalyticsKey)
	}
}

func TestNoopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Store = Noop{}

	var dest string
	hit, err := c.Get(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("Noop.Get = (%v, %v), want miss", hit, err)
	}
	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Noop.Set: %v", err)
	}
	if err := c.CapacityChanged(ctx, "e1"); err != nil {
		t.Fatalf("Noop.CapacityChanged: %v", err)
	}
	if err := c.UserBookingsChanged(ctx, "u1"); err != nil {
		t.Fatalf("Noop.UserBookingsChanged: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Noop.Clear: %v", err)
	}
}

func TestNoopStatusReportsDisabled(t *testing.T) {
	status, err := Noop{}.Status(context.Background())
	if err != nil {
		t.Fatalf("Noop.Status: %v", err)
	}
	if status["cache_type"] != "none" || status["status"] != "disabled" {
		t.Fatalf("Noop.Status = %v", status)
	}
}
