package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/scout/tool"
)

// CreateArgs are the arguments of create_booking.
type CreateArgs struct {
	Date           string `json:"date" desc:"Date of the booking in YYYY-MM-DD format" required:"true"`
	Hour           string `json:"hour" desc:"Time of the booking in HH:MM format" required:"true"`
	RestaurantName string `json:"restaurant_name" desc:"Name of the restaurant" required:"true"`
	GuestName      string `json:"guest_name" desc:"Name of the guest making the booking" required:"true"`
	NumGuests      int    `json:"num_guests" desc:"Number of guests" required:"true"`
}

// LookupArgs identify an existing booking.
type LookupArgs struct {
	BookingID      string `json:"booking_id" desc:"The booking ID returned when the booking was created" required:"true"`
	RestaurantName string `json:"restaurant_name" desc:"Name of the restaurant" required:"true"`
}

// Tools returns create_booking, get_booking_details and delete_booking
// backed by s. A missing booking is reported to the model as text; invalid
// input fails the call so the model sees the reason.
func Tools(s *Service) []tool.Registration {
	return []tool.Registration{
		tool.Func("create_booking",
			"Create a new restaurant booking. Returns the booking ID.",
			func(ctx context.Context, args CreateArgs) (string, error) {
				b, err := s.Create(ctx, Booking{
					RestaurantName: args.RestaurantName,
					GuestName:      args.GuestName,
					Date:           args.Date,
					Hour:           args.Hour,
					NumGuests:      args.NumGuests,
				})
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Booking created with ID %s: %s at %s on %s at %s for %d %s.",
					b.ID, b.GuestName, b.RestaurantName, b.Date, b.Hour, b.NumGuests, guests(b.NumGuests)), nil
			}),

		tool.Func("get_booking_details",
			"Get the details of an existing restaurant booking.",
			func(ctx context.Context, args LookupArgs) (string, error) {
				b, err := s.Get(ctx, args.RestaurantName, args.BookingID)
				if errors.Is(err, ErrNotFound) {
					return notFound(args), nil
				}
				if err != nil {
					return "", err
				}
				return Describe(b), nil
			}),

		tool.Func("delete_booking",
			"Cancel an existing restaurant booking.",
			func(ctx context.Context, args LookupArgs) (string, error) {
				err := s.Delete(ctx, args.RestaurantName, args.BookingID)
				if errors.Is(err, ErrNotFound) {
					return notFound(args), nil
				}
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Booking %s at %s was deleted.", strings.TrimSpace(args.BookingID), args.RestaurantName), nil
			}),
	}
}

// Describe renders a booking for the model.
func Describe(b Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking ID: %s\n", b.ID)
	fmt.Fprintf(&sb, "Restaurant: %s\n", b.RestaurantName)
	fmt.Fprintf(&sb, "Guest: %s\n", b.GuestName)
	fmt.Fprintf(&sb, "Date: %s\n", b.Date)
	fmt.Fprintf(&sb, "Time: %s\n", b.Hour)
	fmt.Fprintf(&sb, "Guests: %d", b.NumGuests)
	return sb.String()
}

func notFound(args LookupArgs) string {
	return fmt.Sprintf("No booking found with ID %s at %s.", strings.TrimSpace(args.BookingID), args.RestaurantName)
}

func guests(n int) string {
	if n == 1 {
		return "guest"
	}
	return "guests"
}
