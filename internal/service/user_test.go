package service

import (
	"context"
	"testing"

	"github.com/tanmay-ghai/ticketly/internal/model"
)

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(&fakeUserStore{}, &fakeBookingStore{}, newSpyCache())

	if _, err := svc.Create(ctx, model.CreateUserRequest{Name: "", Email: "a@b.com"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := svc.Create(ctx, model.CreateUserRequest{Name: "A", Email: "not-an-email"}); err == nil {
		t.Fatal("expected error for bad email")
	}
	if _, err := svc.Create(ctx, model.CreateUserRequest{Name: "A", Email: "a@b.com", Role: "root"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := svc.Create(ctx, model.CreateUserRequest{Name: "A", Email: "A@Example.COM", Role: "admin"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestListUsers(t *testing.T) {
	svc := NewUserService(&fakeUserStore{users: []model.User{{ID: "u1", Name: "A"}, {ID: "u2", Name: "B"}}}, &fakeBookingStore{}, newSpyCache())

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u1" {
		t.Fatalf("users = %+v", users)
	}
}

func TestBookingHistoryReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeBookingStore{
		history: []model.BookingHistoryItem{
			{Booking: model.Booking{ID: "b1", UserID: "u1", EventID: "e1", Status: model.StatusConfirmed}, EventName: "GopherCon"},
		},
	}
	c := newSpyCache()
	svc := NewUserService(&fakeUserStore{exists: true}, store, c)

	first, err := svc.BookingHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("BookingHistory: %v", err)
	}
	// Mutate the backing store; the cached copy must be served.
	store.history = nil
	second, err := svc.BookingHistory(ctx, "u1")
	if err != nil {
		t.Fatalf("BookingHistory (cached): %v", err)
	}
	if len(first) != 1 || len(second) != 1 || second[0].EventName != "GopherCon" {
		t.Fatalf("cached history mismatch: first=%v second=%v", first, second)
	}
}
