package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/conversation"
	"github.com/spetersoncode/scout/event"
	"github.com/spetersoncode/scout/internal/retry"
	"github.com/spetersoncode/scout/tool"
)

// Agent drives a conversation between a user, a model and a set of tools.
// One Agent owns one conversation; runs on the same Agent are serialized.
type Agent struct {
	provider scout.ChatProvider
	registry *tool.Registry
	conv     *conversation.State
	threadID string
	base     []Option

	mu sync.Mutex
}

// Result is the outcome of a completed run.
type Result struct {
	// RunID identifies the run in logs and events.
	RunID string

	// Response is the model's final response.
	Response *scout.Response

	// Content is the final answer text.
	Content string

	// Iterations is the number of model calls the run made.
	Iterations int

	// Usage sums token usage across every model call of the run.
	Usage scout.Usage

	// Messages are the messages the run appended to the conversation,
	// starting with the user prompt.
	Messages []scout.Message
}

// New creates an Agent over provider and registry. The registry is frozen:
// the set of tools is fixed from here on. Options given here apply to every
// run; options given to Run override them for that run only.
func New(provider scout.ChatProvider, registry *tool.Registry, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}
	registry.Freeze()

	o := ApplyOptions(opts...)
	conv := o.Conversation
	if conv == nil {
		conv = conversation.New()
	}

	return &Agent{
		provider: provider,
		registry: registry,
		conv:     conv,
		threadID: uuid.New().String(),
		base:     opts,
	}, nil
}

// Conversation returns the conversation the agent appends to.
func (a *Agent) Conversation() *conversation.State {
	return a.conv
}

// Registry returns the agent's frozen tool registry.
func (a *Agent) Registry() *tool.Registry {
	return a.registry
}

// ThreadID identifies the agent's conversation in emitted events.
func (a *Agent) ThreadID() string {
	return a.threadID
}

// Invoke runs the agent on prompt and returns the final answer text.
func (a *Agent) Invoke(ctx context.Context, prompt string, opts ...Option) (string, error) {
	res, err := a.Run(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Run appends prompt to the conversation and loops model calls and tool
// executions until the model answers without requesting tools.
// It returns ErrIterationLimitExceeded after MaxIterations model calls
// without a final answer.
func (a *Agent) Run(ctx context.Context, prompt string, opts ...Option) (*Result, error) {
	return a.run(ctx, prompt, newRunID(), nil, opts)
}

// RunStream executes a run in the background and returns its events. The
// channel is closed after RunEnd or RunError. Callers should drain the
// channel or cancel ctx.
func (a *Agent) RunStream(ctx context.Context, prompt string, opts ...Option) <-chan event.Event {
	ch := event.NewChannel()
	runID := newRunID()

	go func() {
		defer close(ch)

		emit := func(e event.Event) {
			e.ThreadID = a.threadID
			e.RunID = runID
			event.Emit(ctx, ch, e)
		}
		emit(event.Event{Type: event.RunStart})

		res, err := a.run(ctx, prompt, runID, emit, opts)
		final := event.Event{ThreadID: a.threadID, RunID: runID, Timestamp: time.Now()}
		if err != nil {
			final.Type = event.RunError
			final.Error = err
		} else {
			final.Type = event.RunEnd
			final.Response = res.Response
			final.Step = res.Iterations
			usage := res.Usage
			final.Usage = &usage
		}
		deliverFinal(ctx, ch, final)
	}()

	return ch
}

// deliverFinal prefers buffer space over a cancelled context so the
// terminal event survives cancellation whenever it can.
func deliverFinal(ctx context.Context, ch chan<- event.Event, e event.Event) {
	select {
	case ch <- e:
	default:
		event.Emit(ctx, ch, e)
	}
}

func newRunID() string {
	return "run-" + uuid.New().String()
}

// emitter forwards run events. A nil emitter discards them.
type emitter func(event.Event)

func (e emitter) emit(ev event.Event) {
	if e != nil {
		e(ev)
	}
}

func (a *Agent) run(ctx context.Context, prompt, runID string, emit emitter, runOpts []Option) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	options := ApplyOptions(append(append([]Option{}, a.base...), runOpts...)...)
	log := options.Logger.With("run_id", runID, "thread_id", a.threadID)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	// Handlers share one RequestState for the whole run.
	rs := NewRequestState()
	toolCtx := WithRequestState(ctx, rs)
	if st := a.conv.AgentState(); st != nil {
		toolCtx = WithAgentState(toolCtx, st)
	}

	chatOpts := append([]scout.Option{scout.WithTools(a.registry.Tools())}, options.ChatOptions...)
	if options.SystemPrompt != "" {
		chatOpts = append(chatOpts, scout.WithSystem(options.SystemPrompt))
	}

	result := &Result{RunID: runID}
	userMsg := scout.NewUserMessage(prompt)
	a.conv.Append(userMsg)
	result.Messages = append(result.Messages, userMsg)

	log.Info("run started", "max_iterations", options.MaxIterations, "tools", a.registry.Len())
	start := time.Now()

	for step := 1; step <= options.MaxIterations; step++ {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", "step", step, "error", err)
			return nil, err
		}

		emit.emit(event.Event{Type: event.StepStart, Step: step})

		resp, err := a.callModel(ctx, a.conv.Snapshot(), chatOpts, options, step, emit, log)
		if err != nil {
			log.Error("model call failed", "step", step, "error", err)
			return nil, fmt.Errorf("agent: model call: %w", err)
		}
		result.Iterations = step
		result.Usage.Add(resp.Usage)

		if len(resp.ToolCalls) == 0 {
			final := scout.NewAssistantMessage(resp.Content)
			a.conv.Append(final)
			result.Messages = append(result.Messages, final)
			result.Response = resp
			result.Content = resp.Content

			emit.emit(event.Event{Type: event.StepEnd, Step: step, Response: resp})
			log.Info("run finished",
				"iterations", step,
				"input_tokens", result.Usage.InputTokens,
				"output_tokens", result.Usage.OutputTokens,
				"duration", time.Since(start))
			return result, nil
		}

		calls := ensureCallIDs(resp.ToolCalls)
		results := a.executeTools(toolCtx, calls, options, step, emit, log)

		// The assistant turn and its results land in the conversation together.
		turn := make([]scout.Message, 0, len(results)+1)
		turn = append(turn, scout.NewAssistantMessage(resp.Content, calls...))
		for _, r := range results {
			turn = append(turn, scout.NewToolResultMessage(r))
		}
		a.conv.Append(turn...)
		result.Messages = append(result.Messages, turn...)

		emit.emit(event.Event{Type: event.StepEnd, Step: step, Response: resp})
	}

	log.Warn("iteration limit exceeded", "max_iterations", options.MaxIterations)
	return nil, fmt.Errorf("%w: %d model calls without a final answer", ErrIterationLimitExceeded, options.MaxIterations)
}

// callModel performs one model call, retrying transient failures.
func (a *Agent) callModel(ctx context.Context, msgs []scout.Message, chatOpts []scout.Option, options *Options, step int, emit emitter, log *slog.Logger) (*scout.Response, error) {
	notify := func(attempt int, err error, delay time.Duration) {
		log.Warn("retrying model call", "step", step, "attempt", attempt, "delay", delay, "error", err)
	}
	return retry.Do(ctx, options.Retry, notify, func() (*scout.Response, error) {
		if options.Streaming {
			return a.streamModel(ctx, msgs, chatOpts, step, emit)
		}
		resp, err := a.provider.Chat(ctx, msgs, chatOpts...)
		if err != nil {
			return nil, err
		}
		if resp.Content != "" {
			id := scout.GenerateMessageID()
			emit.emit(event.Event{Type: event.MessageStart, Step: step, MessageID: id})
			emit.emit(event.Event{Type: event.MessageDelta, Step: step, MessageID: id, Delta: resp.Content})
			emit.emit(event.Event{Type: event.MessageEnd, Step: step, MessageID: id, Response: resp})
		}
		return resp, nil
	})
}

func (a *Agent) streamModel(ctx context.Context, msgs []scout.Message, chatOpts []scout.Option, step int, emit emitter) (*scout.Response, error) {
	stream, err := a.provider.ChatStream(ctx, msgs, chatOpts...)
	if err != nil {
		return nil, err
	}

	id := scout.GenerateMessageID()
	started := false
	end := func(resp *scout.Response) {
		if started {
			emit.emit(event.Event{Type: event.MessageEnd, Step: step, MessageID: id, Response: resp})
		}
	}

	var resp *scout.Response
	for ev := range stream {
		if ev.Err != nil {
			end(nil)
			return nil, ev.Err
		}
		if ev.Delta != "" {
			if !started {
				emit.emit(event.Event{Type: event.MessageStart, Step: step, MessageID: id})
				started = true
			}
			emit.emit(event.Event{Type: event.MessageDelta, Step: step, MessageID: id, Delta: ev.Delta})
		}
		if ev.Done {
			resp = ev.Response
		}
	}
	end(resp)

	if resp == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrIncompleteStream
	}
	return resp, nil
}

// ensureCallIDs fills in IDs some providers omit so results can be matched.
func ensureCallIDs(calls []scout.ToolCall) []scout.ToolCall {
	out := make([]scout.ToolCall, len(calls))
	for i, c := range calls {
		if c.ID == "" {
			c.ID = "call_" + uuid.New().String()
		}
		out[i] = c
	}
	return out
}

// executeTools runs the calls of one turn. Results come back in request
// order regardless of completion order.
func (a *Agent) executeTools(ctx context.Context, calls []scout.ToolCall, options *Options, step int, emit emitter, log *slog.Logger) []scout.ToolResult {
	for i := range calls {
		tc := calls[i]
		emit.emit(event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})
		emit.emit(event.Event{Type: event.ToolCallArgs, Step: step, ToolCall: &tc})
		emit.emit(event.Event{Type: event.ToolCallEnd, Step: step, ToolCall: &tc})
	}

	results := make([]scout.ToolResult, len(calls))
	if options.ParallelToolCalls && len(calls) > 1 {
		var wg sync.WaitGroup
		for i, tc := range calls {
			wg.Add(1)
			go func(idx int, call scout.ToolCall) {
				defer wg.Done()
				results[idx] = a.executeTool(ctx, call, options, step, emit, log)
			}(i, tc)
		}
		wg.Wait()
		return results
	}

	for i, tc := range calls {
		results[i] = a.executeTool(ctx, tc, options, step, emit, log)
	}
	return results
}

func (a *Agent) executeTool(ctx context.Context, tc scout.ToolCall, options *Options, step int, emit emitter, log *slog.Logger) scout.ToolResult {
	execCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := a.registry.Execute(execCtx, tc)
	if err != nil {
		log.Warn("tool call failed", "step", step, "tool", tc.Name, "call_id", tc.ID, "error", err)
	} else {
		log.Debug("tool call finished", "step", step, "tool", tc.Name, "call_id", tc.ID,
			"bytes", len(result.Content), "duration", time.Since(start))
	}

	emit.emit(event.Event{Type: event.ToolCallResult, Step: step, ToolCall: &tc, ToolResult: &result})
	return result
}
