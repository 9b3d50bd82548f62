// Package booking implements restaurant reservations and the tools that let
// an agent create, look up and cancel them.
//
// Bookings are stored as JSON under "booking:<restaurant>:<id>" in any
// [store.Adapter].
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/scout/store"
)

// Layouts accepted for Booking.Date and Booking.Hour.
const (
	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

const keyPrefix = "booking"

// ErrNotFound is returned when no booking matches the ID and restaurant.
var ErrNotFound = errors.New("booking: not found")

// Booking is a table reservation.
type Booking struct {
	ID             string    `json:"booking_id"`
	RestaurantName string    `json:"restaurant_name"`
	GuestName      string    `json:"guest_name"`
	Date           string    `json:"date"`
	Hour           string    `json:"hour"`
	NumGuests      int       `json:"num_guests"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidationError reports a booking field the service refused.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: invalid %s: %s", e.Field, e.Reason)
}

// Service manages bookings in an adapter.
type Service struct {
	adapter store.Adapter
	now     func() time.Time
}

// NewService creates a Service backed by adapter.
func NewService(adapter store.Adapter) *Service {
	return &Service{adapter: adapter, now: time.Now}
}

// Key returns the storage key of a booking.
func Key(restaurant, id string) string {
	return store.Key(keyPrefix, strings.ToLower(restaurant), id)
}

// Create validates b, assigns an ID and stores it.
func (s *Service) Create(ctx context.Context, b Booking) (Booking, error) {
	b.RestaurantName = strings.TrimSpace(b.RestaurantName)
	b.GuestName = strings.TrimSpace(b.GuestName)
	b.Date = strings.TrimSpace(b.Date)
	b.Hour = strings.TrimSpace(b.Hour)

	if err := validate(b); err != nil {
		return Booking{}, err
	}

	b.ID = newID()
	b.CreatedAt = s.now().UTC()
	if err := store.SetJSON(ctx, s.adapter, Key(b.RestaurantName, b.ID), b); err != nil {
		return Booking{}, fmt.Errorf("booking: save: %w", err)
	}
	return b, nil
}

// Get returns the booking with id at restaurant.
func (s *Service) Get(ctx context.Context, restaurant, id string) (Booking, error) {
	var b Booking
	err := store.GetJSON(ctx, s.adapter, Key(restaurant, strings.TrimSpace(id)), &b)
	if errors.Is(err, store.ErrKeyNotFound) {
		return Booking{}, ErrNotFound
	}
	if err != nil {
		return Booking{}, fmt.Errorf("booking: load: %w", err)
	}
	return b, nil
}

// Delete removes the booking with id at restaurant.
func (s *Service) Delete(ctx context.Context, restaurant, id string) error {
	key := Key(restaurant, strings.TrimSpace(id))
	ok, err := s.adapter.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("booking: lookup: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return s.adapter.Delete(ctx, key)
}

// List returns every booking at restaurant, ordered by date and hour.
func (s *Service) List(ctx context.Context, restaurant string) ([]Booking, error) {
	keys, err := store.KeysWithPrefix(ctx, s.adapter, Key(restaurant, ""))
	if err != nil {
		return nil, fmt.Errorf("booking: list: %w", err)
	}

	out := make([]Booking, 0, len(keys))
	for _, k := range keys {
		var b Booking
		if err := store.GetJSON(ctx, s.adapter, k, &b); err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("booking: load: %w", err)
		}
		out = append(out, b)
	}
	sortBookings(out)
	return out, nil
}

func validate(b Booking) error {
	if b.RestaurantName == "" {
		return &ValidationError{Field: "restaurant_name", Reason: "required"}
	}
	if b.GuestName == "" {
		return &ValidationError{Field: "guest_name", Reason: "required"}
	}
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if _, err := time.Parse(HourLayout, b.Hour); err != nil {
		return &ValidationError{Field: "hour", Reason: "expected HH:MM"}
	}
	if b.NumGuests <= 0 {
		return &ValidationError{Field: "num_guests", Reason: "must be at least 1"}
	}
	return nil
}

func sortBookings(bs []Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].Date != bs[j].Date {
			return bs[i].Date < bs[j].Date
		}
		return bs[i].Hour < bs[j].Hour
	})
}

// newID returns a short booking reference.
func newID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
