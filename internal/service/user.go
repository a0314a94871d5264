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

const userBookingsTTL = 2 * time.Minute

// UserService orchestrates the user directory and booking history reads.
type UserService struct {
	users    UserStore
	bookings BookingStore
	cache    cache.Store
}

// NewUserService constructs a UserService with its dependencies.
func NewUserService(users UserStore, bookings BookingStore, c cache.Store) *UserService {
	return &UserService{users: users, bookings: bookings, cache: c}
}

// Create validates and registers a new user.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid email address")
	}
	if req.Role != "" && req.Role != string(model.RoleUser) && req.Role != string(model.RoleAdmin) {
		return nil, fmt.Errorf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
	}
	return s.users.Create(ctx, req)
}

// List returns all users in the directory.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.users.GetByID(ctx, id)
}

// IsAdmin reports whether the user carries the admin role.
func (s *UserService) IsAdmin(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return s.users.IsAdmin(ctx, id)
}

// BookingHistory returns the user's bookings with event metadata, read
// through the cache.
func (s *UserService) BookingHistory(ctx context.Context, userID string) ([]model.BookingHistoryItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	key := cache.UserBookingsKey(userID)
	var items []model.BookingHistoryItem
	if hit, err := s.cache.Get(ctx, key, &items); err == nil && hit {
		return items, nil
	}

	items, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, key, items, userBookingsTTL); cerr != nil {
		log.Printf("cache set failed for %s: %v", key, cerr)
	}
	return items, nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
