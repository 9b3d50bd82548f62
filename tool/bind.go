package tool

import (
	"context"

	"github.com/spetersoncode/scout"
)

// Bind creates a Tool and Handler from a typed function.
// The JSON schema for tool parameters is generated from struct tags on T,
// and arguments are decoded with DecodeArgs before fn is called.
//
// Example:
//
//	type LookupArgs struct {
//	    BookingID      string `json:"booking_id" desc:"Booking ID" required:"true"`
//	    RestaurantName string `json:"restaurant_name" desc:"Restaurant name" required:"true"`
//	}
//
//	t, h, err := tool.Bind("get_booking_details", "Look up a booking",
//	    func(ctx context.Context, args LookupArgs) (string, error) {
//	        return lookup(ctx, args)
//	    })
func Bind[T any](name, description string, fn TypedHandler[T]) (scout.Tool, Handler, error) {
	schema, err := scout.SchemaFor[T]()
	if err != nil {
		return scout.Tool{}, nil, err
	}

	t := scout.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}

	handler := func(ctx context.Context, call scout.ToolCall) (string, error) {
		var args T
		if err := DecodeArgs(call.Arguments, &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}

	return t, handler, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](name, description string, fn TypedHandler[T]) (scout.Tool, Handler) {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t, h
}

// BindTo creates a tool from a typed function and registers it directly to a Registry.
func BindTo[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		return err
	}
	return r.Register(t, h)
}
