package agent

import (
	"context"
	"sync"

	"github.com/spetersoncode/scout/store"
)

// RequestState is a key-value map that lives for exactly one run. Every
// tool call of the run sees the same RequestState through its context; it
// is discarded when the run returns and never persisted.
type RequestState struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewRequestState creates an empty RequestState.
func NewRequestState() *RequestState {
	return &RequestState{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (r *RequestState) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "".
func (r *RequestState) GetString(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Set stores value under key.
func (r *RequestState) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Delete removes key.
func (r *RequestState) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
}

// Len returns the number of keys.
func (r *RequestState) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

type requestStateKey struct{}
type agentStateKey struct{}

// WithRequestState returns a context carrying rs.
func WithRequestState(ctx context.Context, rs *RequestState) context.Context {
	return context.WithValue(ctx, requestStateKey{}, rs)
}

// RequestStateFrom returns the RequestState of the run that ctx belongs to.
func RequestStateFrom(ctx context.Context) (*RequestState, bool) {
	rs, ok := ctx.Value(requestStateKey{}).(*RequestState)
	return rs, ok && rs != nil
}

// WithAgentState returns a context carrying the agent state st.
func WithAgentState(ctx context.Context, st *store.Store) context.Context {
	return context.WithValue(ctx, agentStateKey{}, st)
}

// AgentStateFrom returns the agent state of the agent running the tool.
func AgentStateFrom(ctx context.Context) (*store.Store, bool) {
	st, ok := ctx.Value(agentStateKey{}).(*store.Store)
	return st, ok && st != nil
}
