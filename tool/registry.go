package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spetersoncode/scout"
)

// Registry manages registered tools and their handlers.
// It is safe for concurrent use. Once frozen, it is read-only and may be
// shared by any number of agents.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Descriptor
	order  []string
	frozen bool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Descriptor),
	}
}

// Register adds a tool with its handler to the registry.
// Returns *ErrDuplicateName if a tool with the same name is already
// registered, and ErrFrozen once the registry has been frozen.
func (r *Registry) Register(t scout.Tool, handler Handler) error {
	if t.Name == "" {
		return &ErrInvalidTool{Reason: "name is empty"}
	}
	if handler == nil {
		return &ErrInvalidTool{Name: t.Name, Reason: "handler is nil"}
	}
	if len(t.Parameters) > 0 && !json.Valid(t.Parameters) {
		return &ErrInvalidTool{Name: t.Name, Reason: "parameters are not valid JSON"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	if _, exists := r.tools[t.Name]; exists {
		return &ErrDuplicateName{Name: t.Name}
	}

	r.tools[t.Name] = Descriptor{Tool: t, Handler: handler}
	r.order = append(r.order, t.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(t scout.Tool, handler Handler) {
	if err := r.Register(t, handler); err != nil {
		panic(err)
	}
}

// Resolve returns the descriptor registered under name.
// Returns *ErrUnknownTool if nothing is registered under that name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.tools[name]
	if !ok {
		return Descriptor{}, &ErrUnknownTool{Name: name}
	}
	return d, nil
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	d, err := r.Resolve(name)
	if err != nil {
		return nil, false
	}
	return d.Handler, true
}

// Tools returns all registered tool definitions in registration order.
// This is used to pass the tools to the ChatProvider.
func (r *Registry) Tools() []scout.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]scout.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].Tool)
	}
	return tools
}

// Names returns the names of all registered tools in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Freeze makes the registry read-only. Freezing twice is a no-op.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Execute runs the handler for a tool call and returns a ToolResult.
//
// Every failure becomes an error result so the model can recover: an
// unknown tool name, a handler error, and a handler panic all produce
// a ToolResult with IsError set and content prefixed with "Error: ".
// The returned error is non-nil only to let callers log what happened;
// it is *ErrUnknownTool or *ErrToolExecution.
func (r *Registry) Execute(ctx context.Context, call scout.ToolCall) (scout.ToolResult, error) {
	d, err := r.Resolve(call.Name)
	if err != nil {
		return errorResult(call, err), err
	}

	content, err := invoke(ctx, d.Handler, call)
	if err != nil {
		execErr := &ErrToolExecution{Name: call.Name, Err: err}
		return errorResult(call, err), execErr
	}

	return scout.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    content,
	}, nil
}

func invoke(ctx context.Context, h Handler, call scout.ToolCall) (content string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return h(ctx, call)
}

func errorResult(call scout.ToolCall, err error) scout.ToolResult {
	return scout.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    "Error: " + err.Error(),
		IsError:    true,
	}
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    scout.Tool
	Handler Handler
}

// Func creates a Registration with automatic schema generation from the typed handler.
// Panics if schema generation fails.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_booking_details", "Look up a booking", lookup),
//	    tool.NewSearchTool(client),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	t, h := MustBind(name, description, fn)
	return Registration{Tool: t, Handler: h}
}

// WithHandler creates a Registration from a Handler and schema.
// Use this when you have a pre-built Handler implementation.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: scout.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// Add registers one or more tools to the registry.
// Panics if any tool cannot be registered.
// Returns the registry for fluent chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}
