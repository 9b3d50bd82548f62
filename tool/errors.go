package tool

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned when registering on a registry that has been frozen.
var ErrFrozen = errors.New("tool: registry is frozen")

// ErrUnknownTool is returned when resolving a name that was never registered.
type ErrUnknownTool struct {
	Name string
}

func (e *ErrUnknownTool) Error() string {
	return fmt.Sprintf("tool: unknown tool: %s", e.Name)
}

// ErrDuplicateName is returned when registering a tool whose name is taken.
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrInvalidTool is returned when a tool definition cannot be registered.
type ErrInvalidTool struct {
	Name   string
	Reason string
}

func (e *ErrInvalidTool) Error() string {
	return fmt.Sprintf("tool: invalid tool %q: %s", e.Name, e.Reason)
}

// ErrToolExecution wraps errors from tool handler execution.
type ErrToolExecution struct {
	Name string
	Err  error
}

func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool: %s execution failed: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrInvalidArguments is returned when tool call arguments cannot be decoded,
// even after repair.
type ErrInvalidArguments struct {
	Raw string
	Err error
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: invalid arguments: %v", e.Err)
}

func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}
