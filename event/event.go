// Package event defines the events an agent run emits while streaming.
// The event types map 1:1 onto the AG-UI protocol (see package agui).
package event

import (
	"context"
	"time"

	"github.com/spetersoncode/scout"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a run produces its final answer.
	RunEnd Type = "run_end"

	// RunError fires when a run fails. No events follow it.
	RunError Type = "run_error"
)

// Step lifecycle events. One step is one model call plus the tool calls it
// requested.
const (
	StepStart Type = "step_start"
	StepEnd   Type = "step_end"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streamed chunk of assistant text.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message is complete.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when the model's request for a tool is known.
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgs fires with the tool call arguments.
	ToolCallArgs Type = "tool_call_args"

	// ToolCallEnd fires when the tool call request is complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Event is one observable occurrence during a run.
type Event struct {
	Type Type

	// ThreadID and RunID identify the run for RunStart, RunEnd and RunError.
	ThreadID string
	RunID    string

	// MessageID correlates MessageStart, MessageDelta and MessageEnd.
	MessageID string

	// Delta is the streamed text for MessageDelta.
	Delta string

	// Response is the final model response for MessageEnd and RunEnd.
	Response *scout.Response

	// ToolCall is set on tool call events.
	ToolCall *scout.ToolCall

	// ToolResult is set on ToolCallResult.
	ToolResult *scout.ToolResult

	// Usage is the token usage summed over the run, set on RunEnd.
	Usage *scout.Usage

	// Step is the 1-indexed model call number.
	Step int

	// Error is set on RunError.
	Error error

	Timestamp time.Time
}

// DefaultBuffer is the capacity of channels from NewChannel.
const DefaultBuffer = 100

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, DefaultBuffer)
}

// Emit stamps e and sends it on ch, blocking until the receiver takes it or
// ctx is done. Reports whether the event was delivered.
func Emit(ctx context.Context, ch chan<- Event, e Event) bool {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// Collect drains ch and returns every event received.
func Collect(ch <-chan Event) []Event {
	var out []Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}
