package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/model"
	"github.com/tanmay-ghai/ticketly/internal/service"
)

// roleDirectory is a user store whose only meaningful answer is IsAdmin.
type roleDirectory struct {
	admins map[string]bool
}

func (d *roleDirectory) Create(_ context.Context, req model.CreateUserRequest) (*model.User, error) {
	return &model.User{ID: "u1", Name: req.Name, Email: req.Email}, nil
}

func (d *roleDirectory) List(context.Context) ([]model.User, error) { return nil, nil }

func (d *roleDirectory) GetByID(context.Context, string) (*model.User, error) { return nil, nil }

func (d *roleDirectory) Exists(context.Context, string) (bool, error) { return true, nil }

func (d *roleDirectory) IsAdmin(_ context.Context, id string) (bool, error) {
	return d.admins[id], nil
}

type noBookings struct{}

func (noBookings) Book(context.Context, string, string) (*model.Booking, error) { return nil, nil }

func (noBookings) Cancel(context.Context, string) (*model.Booking, *model.Booking, error) {
	return nil, nil, nil
}

func (noBookings) GetByID(context.Context, string) (*model.Booking, error) { return nil, nil }

func (noBookings) ListByUser(context.Context, string) ([]model.BookingHistoryItem, error) {
	return nil, nil
}

func TestRequireAdmin(t *testing.T) {
	users := service.NewUserService(&roleDirectory{admins: map[string]bool{"admin-1": true}}, noBookings{}, cache.Noop{})

	var reached bool
	protected := RequireAdmin(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		userID string
		status int
		passes bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"non-admin", "user-2", http.StatusForbidden, false},
		{"admin", "admin-1", http.StatusOK, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/admin/analytics", nil)
			if c.userID != "" {
				req.Header.Set("X-User-ID", c.userID)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d", rec.Code, c.status)
			}
			if reached != c.passes {
				t.Fatalf("handler reached = %v, want %v", reached, c.passes)
			}
		})
	}
}
