package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
// It is an expected business outcome, not a fault.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyBooked is returned when the user already holds a confirmed
// booking for the event.
var ErrAlreadyBooked = errors.New("user already has a confirmed booking for this event")

// ErrAlreadyCancelled is returned when cancelling a booking that is not
// confirmed. Cancel is deliberately not idempotent; callers needing
// idempotence wrap it.
var ErrAlreadyCancelled = errors.New("booking is already cancelled")

// ErrAlreadyWaitlisted is returned when the user already holds an active
// waitlist entry for the event.
var ErrAlreadyWaitlisted = errors.New("user is already on the waitlist for this event")

// ErrNotWaitlisted is returned when the user has no active waitlist entry
// for the event.
var ErrNotWaitlisted = errors.New("user is not on the waitlist for this event")

// ErrEventNotFull is returned when joining a waitlist for an event that
// still has seats. Callers should book directly instead.
var ErrEventNotFull = errors.New("event is not full, book directly instead of joining the waitlist")

// ErrLockTimeout is returned when the per-event lock could not be acquired
// within the configured interval. Retryable with backoff.
var ErrLockTimeout = errors.New("event is under heavy contention, retry later")

// ErrCapacityBelowBooked is returned when an admin tries to lower an
// event's capacity below its current confirmed booking count.
var ErrCapacityBelowBooked = errors.New("capacity cannot be lowered below the current booking count")

// InvariantError reports a broken capacity invariant. It always indicates a
// bug: the enclosing transaction is aborted and the error logged loudly,
// never silently corrected.
type InvariantError struct {
	EventID string
	Detail  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("capacity invariant violated for event %s: %s", e.EventID, e.Detail)
}
