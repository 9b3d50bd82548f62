// Package conversation holds the bounded message history of an agent.
//
// History is grouped into exchanges. An exchange starts with a user message
// and runs until the next one, so the assistant reply and every tool call
// and result it caused stay together. When the number of exchanges exceeds
// the window size, the oldest exchanges are dropped first; the exchange in
// progress is never split.
package conversation

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/store"
)

// DefaultWindowSize is the number of exchanges kept when none is configured.
const DefaultWindowSize = 20

// State is an agent's conversation history plus its agent state, a
// key-value scratchpad that tools and host code read and write but the
// model never sees.
//
// State is safe for concurrent use, but an agent run assumes it is the only
// writer for its duration.
type State struct {
	mu         sync.RWMutex
	messages   []scout.Message
	windowSize int
	agentState *store.Store
}

// Option configures a State.
type Option func(*State)

// WithWindowSize sets the maximum number of exchanges kept. Values below 1
// are raised to 1.
func WithWindowSize(n int) Option {
	return func(s *State) {
		if n < 1 {
			n = 1
		}
		s.windowSize = n
	}
}

// WithAgentState uses st as the agent state instead of a fresh in-memory one.
func WithAgentState(st *store.Store) Option {
	return func(s *State) {
		if st != nil {
			s.agentState = st
		}
	}
}

// New creates an empty State.
func New(opts ...Option) *State {
	s := &State{windowSize: DefaultWindowSize}
	for _, opt := range opts {
		opt(s)
	}
	if s.agentState == nil {
		s.agentState = store.New(nil)
	}
	return s
}

// Append adds messages in order and evicts the oldest exchanges if the
// window is exceeded. Messages are copied.
func (s *State) Append(msgs ...scout.Message) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		s.messages = append(s.messages, m.Clone())
	}
	s.evict()
}

// evict drops leading exchanges until at most windowSize remain.
func (s *State) evict() {
	starts := exchangeStarts(s.messages)
	excess := len(starts) - s.windowSize
	if excess <= 0 {
		return
	}
	cut := starts[excess]
	kept := make([]scout.Message, len(s.messages)-cut)
	copy(kept, s.messages[cut:])
	s.messages = kept
}

// exchangeStarts returns the index at which each exchange begins. Messages
// before the first user message form an exchange of their own.
func exchangeStarts(msgs []scout.Message) []int {
	var starts []int
	for i, m := range msgs {
		if m.Role == scout.RoleUser || i == 0 {
			starts = append(starts, i)
		}
	}
	return starts
}

// Snapshot returns a deep copy of the current history in order.
func (s *State) Snapshot() []scout.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scout.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Last returns a copy of the most recent message, if any.
func (s *State) Last() (scout.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return scout.Message{}, false
	}
	return s.messages[len(s.messages)-1].Clone(), true
}

// Len returns the number of messages held.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Exchanges returns the number of exchanges held.
func (s *State) Exchanges() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(exchangeStarts(s.messages))
}

// WindowSize returns the configured window size.
func (s *State) WindowSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windowSize
}

// Clear drops all messages. Agent state is kept.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// AgentState returns the agent's key-value scratchpad.
func (s *State) AgentState() *store.Store {
	return s.agentState
}

type persisted struct {
	WindowSize int             `json:"windowSize"`
	Messages   []scout.Message `json:"messages"`
}

// Save writes the history to a under key.
func (s *State) Save(ctx context.Context, a store.Adapter, key string) error {
	s.mu.RLock()
	p := persisted{WindowSize: s.windowSize, Messages: s.messages}
	raw, err := json.Marshal(p)
	s.mu.RUnlock()
	if err != nil {
		return &store.SerializationError{Key: key, Err: err}
	}
	return a.Set(ctx, key, raw)
}

// Load replaces the history with what was saved under key. The current
// window size still applies. Returns store.ErrKeyNotFound when nothing was
// saved.
func (s *State) Load(ctx context.Context, a store.Adapter, key string) error {
	var p persisted
	if err := store.GetJSON(ctx, a, key, &p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = p.Messages
	s.evict()
	return nil
}
