package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/agent"
	"github.com/spetersoncode/scout/agui"
	"github.com/spetersoncode/scout/event"
)

// sessions caches one agent per thread so a thread's runs share history
// and are serialized.
type sessions struct {
	mu     sync.Mutex
	agents map[string]*agent.Agent
	create func(ctx context.Context, threadID string) (*agent.Agent, error)
}

func newSessions(create func(ctx context.Context, threadID string) (*agent.Agent, error)) *sessions {
	return &sessions{agents: make(map[string]*agent.Agent), create: create}
}

func (s *sessions) get(ctx context.Context, threadID string) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.agents[threadID]; ok {
		return a, nil
	}
	a, err := s.create(ctx, threadID)
	if err != nil {
		return nil, err
	}
	s.agents[threadID] = a
	return a, nil
}

// InvocationHandler runs the agent for AG-UI requests and streams the
// events back over SSE.
type InvocationHandler struct {
	sessions *sessions
	persist  func(ctx context.Context, threadID string, a *agent.Agent) error
	usage    func(u *scout.Usage) string
}

// NewInvocationHandler creates a handler backed by app.
func NewInvocationHandler(a *app) *InvocationHandler {
	return &InvocationHandler{
		sessions: newSessions(a.newAgent),
		persist:  a.persist,
		usage:    a.usageLine,
	}
}

// ServeHTTP handles POST requests with a RunAgentInput body.
func (h *InvocationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		slog.Warn("invalid request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	log := slog.With(
		"thread_id", mapper.ThreadID(),
		"run_id", mapper.RunID(),
	)

	ctx := r.Context()
	a, err := h.sessions.get(ctx, mapper.ThreadID())
	if err != nil {
		log.Error("failed to create agent", "error", err)
		http.Error(w, "failed to create agent", http.StatusInternalServerError)
		return
	}

	// A client that keeps its own history seeds a thread the server has
	// not seen yet.
	if conv := a.Conversation(); conv.Len() == 0 && len(prepared.History) > 0 {
		conv.Append(prepared.History...)
	}

	sse, err := agui.NewSSEWriter(w)
	if err != nil {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	log.Info("run started", "prompt_len", len(prepared.Prompt))
	start := time.Now()

	tap := newUsageTap(ctx, a.RunStream(ctx, prepared.Prompt))
	written, err := agui.Stream(ctx, sse, mapper, tap.events)
	var usage *scout.Usage
	if err != nil {
		log.Warn("stream interrupted", "error", err, "events", written)
	} else {
		<-tap.done
		usage = tap.usage
	}

	// Persist even when the client went away; the run itself completed
	// or failed on its own context.
	if err := h.persist(context.WithoutCancel(ctx), mapper.ThreadID(), a); err != nil {
		log.Error("failed to persist session", "error", err)
	}

	log.Info("run finished", "events", written, "duration", time.Since(start), "usage", h.usage(usage))
}

// usageTap forwards run events and records the usage reported on RunEnd.
// usage is only valid after done is closed.
type usageTap struct {
	events chan event.Event
	done   chan struct{}
	usage  *scout.Usage
}

func newUsageTap(ctx context.Context, in <-chan event.Event) *usageTap {
	t := &usageTap{events: make(chan event.Event), done: make(chan struct{})}
	go func() {
		defer close(t.events)
		defer close(t.done)
		for e := range in {
			if e.Type == event.RunEnd {
				t.usage = e.Usage
			}
			select {
			case t.events <- e:
			case <-ctx.Done():
			}
		}
	}()
	return t
}
