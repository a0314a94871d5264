// Package model defines the core domain types for the ticketing backend.
package model

import "time"

// BookingStatus is the lifecycle state of a booking. There is no pending
// state: booking creation is atomic with the capacity reservation.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// UserRole gates admin-only operations (event management, analytics).
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Event represents a bookable event with finite capacity.
// BookedCount tracks live CONFIRMED bookings and must never exceed Capacity.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.Capacity - e.BookedCount
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.BookedCount >= e.Capacity
}

// User is the minimal directory entry backing booking and waitlist rows.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking ties a user to a seat at an event. A cancelled booking is kept as
// history; re-booking creates a fresh row rather than reviving the old one.
type Booking struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	EventID     string        `json:"event_id"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

// WaitlistEntry is one user's place in an event's FIFO waitlist.
// Position increases monotonically per event and is never reused or
// renumbered, so relative order survives removals.
type WaitlistEntry struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	EventID  string    `json:"event_id"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joined_at"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Name     string    `json:"name"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
	Capacity int       `json:"capacity"`
}

// UpdateEventRequest is the payload for updating event metadata or capacity.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Name     *string    `json:"name,omitempty"`
	Venue    *string    `json:"venue,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Capacity *int       `json:"capacity,omitempty"`
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// BookRequest identifies the user booking or waitlisting a seat.
type BookRequest struct {
	UserID string `json:"user_id"`
}

// BookingHistoryItem is a booking joined with its event metadata, as served
// by the user booking-history endpoint.
type BookingHistoryItem struct {
	Booking
	EventName  string    `json:"event_name"`
	EventVenue string    `json:"event_venue"`
	EventTime  time.Time `json:"event_time"`
}

// EventUtilization is one row of the analytics report.
type EventUtilization struct {
	EventID            string  `json:"event_id"`
	EventName          string  `json:"event_name"`
	BookedCount        int     `json:"booked_count"`
	Capacity           int     `json:"capacity"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// Analytics summarises booking totals and per-event utilization.
type Analytics struct {
	TotalBookings int                `json:"total_bookings"`
	PopularEvents []EventUtilization `json:"popular_events"`
	Utilization   []EventUtilization `json:"utilization"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// WaitlistPositionResponse reports a user's live rank in an event waitlist.
type WaitlistPositionResponse struct {
	Position        int `json:"position"`
	TotalInWaitlist int `json:"total_in_waitlist"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
