package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/model"
)

// spyCache records invalidation calls and backs Get/Set with a map so the
// read-through paths can be exercised without Redis.
type spyCache struct {
	mu              sync.Mutex
	data            map[string][]byte
	capacityChanged []string
	userChanged     []string
}

func newSpyCache() *spyCache {
	return &spyCache{data: map[string][]byte{}}
}

func (c *spyCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *spyCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *spyCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *spyCache) CapacityChanged(ctx context.Context, eventID string) error {
	c.mu.Lock()
	c.capacityChanged = append(c.capacityChanged, eventID)
	c.mu.Unlock()
	return c.Delete(ctx, cache.EventKey(eventID), cache.EventsKey, cache.AnalyticsKey)
}

func (c *spyCache) UserBookingsChanged(ctx context.Context, userID string) error {
	c.mu.Lock()
	c.userChanged = append(c.userChanged, userID)
	c.mu.Unlock()
	return c.Delete(ctx, cache.UserBookingsKey(userID))
}

func (c *spyCache) Status(context.Context) (map[string]string, error) {
	return map[string]string{"cache_type": "spy"}, nil
}

func (c *spyCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	return nil
}

type fakeBookingStore struct {
	bookBooking *model.Booking
	bookErr     error
	bookCalls   int

	cancelCancelled *model.Booking
	cancelPromoted  *model.Booking
	cancelErr       error

	history []model.BookingHistoryItem
}

func (f *fakeBookingStore) Book(context.Context, string, string) (*model.Booking, error) {
	f.bookCalls++
	return f.bookBooking, f.bookErr
}

func (f *fakeBookingStore) Cancel(context.Context, string) (*model.Booking, *model.Booking, error) {
	return f.cancelCancelled, f.cancelPromoted, f.cancelErr
}

func (f *fakeBookingStore) GetByID(context.Context, string) (*model.Booking, error) {
	return f.bookBooking, f.bookErr
}

func (f *fakeBookingStore) ListByUser(context.Context, string) ([]model.BookingHistoryItem, error) {
	return f.history, nil
}

type fakeUserStore struct {
	exists bool
	admin  bool
	user   *model.User
	users  []model.User
}

func (f *fakeUserStore) Create(_ context.Context, req model.CreateUserRequest) (*model.User, error) {
	return &model.User{ID: "u-new", Name: req.Name, Email: req.Email}, nil
}

func (f *fakeUserStore) List(context.Context) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) GetByID(context.Context, string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserStore) Exists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeUserStore) IsAdmin(context.Context, string) (bool, error) {
	return f.admin, nil
}

type fakeEventStore struct {
	events    []model.Event
	event     *model.Event
	updated   *model.Event
	promoted  []*model.Booking
	updateErr error
	listCalls int
	analytics *model.Analytics
}

func (f *fakeEventStore) Create(_ context.Context, req model.CreateEventRequest) (*model.Event, error) {
	return &model.Event{ID: "e-new", Name: req.Name, Venue: req.Venue, Capacity: req.Capacity}, nil
}

func (f *fakeEventStore) List(context.Context) ([]model.Event, error) {
	f.listCalls++
	return f.events, nil
}

func (f *fakeEventStore) GetByID(context.Context, string) (*model.Event, error) {
	return f.event, nil
}

func (f *fakeEventStore) Update(context.Context, string, model.UpdateEventRequest) (*model.Event, []*model.Booking, error) {
	return f.updated, f.promoted, f.updateErr
}

func (f *fakeEventStore) Analytics(context.Context) (*model.Analytics, error) {
	return f.analytics, nil
}
