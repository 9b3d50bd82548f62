// Package agui adapts agent runs to the AG-UI protocol.
//
// AG-UI is an event-based protocol connecting agents to user-facing
// applications. This package converts [event.Event] values into AG-UI
// events, converts messages in both directions, decodes invocation requests
// and writes the resulting events as server-sent events.
//
//	input, err := req.Prepare()
//	if err != nil {
//	    return err
//	}
//	w, err := agui.NewSSEWriter(rw)
//	if err != nil {
//	    return err
//	}
//	mapper := agui.NewMapper(input.ThreadID, input.RunID)
//	_, err = agui.Stream(ctx, w, mapper, a.RunStream(ctx, input.Prompt))
//
// # Event Mapping
//
//   - RunStart, RunEnd, RunError → RUN_STARTED, RUN_FINISHED, RUN_ERROR
//   - StepStart, StepEnd → STEP_STARTED, STEP_FINISHED named "step_<n>"
//   - MessageStart, MessageDelta, MessageEnd → TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT, TEXT_MESSAGE_END
//   - ToolCallStart, ToolCallArgs, ToolCallEnd, ToolCallResult → TOOL_CALL_*
//
// A Mapper is not safe for concurrent use. Message conversion is stateless.
package agui
