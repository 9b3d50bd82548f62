package tool

import (
	"context"

	"github.com/spetersoncode/scout"
)

// Handler is a function that executes a tool call and returns a result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, call scout.ToolCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is decoded from the tool call's JSON arguments with DecodeArgs.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// Descriptor pairs a tool definition with the handler that serves it.
// Descriptors are values: resolving a tool hands out a copy, so callers
// cannot mutate what the registry holds.
type Descriptor struct {
	Tool    scout.Tool
	Handler Handler
}

// Name returns the tool name.
func (d Descriptor) Name() string { return d.Tool.Name }
