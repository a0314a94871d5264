package model

import "testing"

func TestEventRemaining(t *testing.T) {
	e := Event{Capacity: 10, BookedCount: 7}
	if got := e.Remaining(); got != 3 {
		t.Fatalf("Remaining() = %d, want 3", got)
	}
}

func TestEventIsFull(t *testing.T) {
	cases := []struct {
		capacity, booked int
		full             bool
	}{
		{10, 0, false},
		{10, 9, false},
		{10, 10, true},
		{1, 1, true},
	}
	for _, c := range cases {
		e := Event{Capacity: c.capacity, BookedCount: c.booked}
		if got := e.IsFull(); got != c.full {
			t.Errorf("IsFull() with capacity=%d booked=%d = %v, want %v", c.capacity, c.booked, got, c.full)
		}
	}
}
