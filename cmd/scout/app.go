package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/agent"
	"github.com/spetersoncode/scout/booking"
	"github.com/spetersoncode/scout/client"
	"github.com/spetersoncode/scout/conversation"
	"github.com/spetersoncode/scout/internal/tavily"
	"github.com/spetersoncode/scout/mcp"
	"github.com/spetersoncode/scout/memory"
	"github.com/spetersoncode/scout/model"
	"github.com/spetersoncode/scout/store"
	"github.com/spetersoncode/scout/tool"
)

const storePrefix = "scout"

// app holds what every mode shares: the provider, the frozen tool registry
// and the persistence adapter.
type app struct {
	cfg      *Config
	provider scout.ChatProvider
	model    string
	registry *tool.Registry
	adapter  store.Adapter
	closers  []io.Closer
}

func newApp(ctx context.Context, cfg *Config) (*app, error) {
	a := &app{cfg: cfg}

	adapter, err := store.Open(ctx, cfg.Store, cfg.StoreURL(), storePrefix, cfg.StoreTTL)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	a.adapter = adapter
	if c, ok := adapter.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	c, err := client.New(ctx, client.Config{
		Provider: scout.Provider(cfg.Provider),
		Model:    cfg.Model,
		APIKeys: client.APIKeys{
			Anthropic: cfg.AnthropicKey,
			OpenAI:    cfg.OpenAIKey,
			Google:    cfg.GoogleKey,
		},
		VertexProject:  cfg.VertexProject,
		VertexLocation: cfg.VertexLocation,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}
	a.provider, a.model = c, c.Model()

	a.registry, err = a.buildRegistry(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	slog.Info("scout ready",
		"provider", cfg.Provider,
		"model", a.model,
		"store", cfg.Store,
		"tools", strings.Join(a.registry.Names(), ","),
	)
	return a, nil
}

// buildRegistry registers the built-in tools and, when configured, the
// tools of an external MCP server. The registry is frozen on return.
func (a *app) buildRegistry(ctx context.Context) (*tool.Registry, error) {
	registry := tool.NewRegistry()

	if a.cfg.TavilyKey != "" {
		tv := tavily.New(a.cfg.TavilyKey)
		registry.Add(
			tool.NewSearchTool(tv),
			tool.NewCrawlTool(tv),
			tool.NewExtractTool(tv),
		)
	} else {
		slog.Warn("TAVILY_API_KEY not set, web tools disabled")
	}

	registry.Add(tool.NewFormatterTool(a.provider))
	registry.Add(booking.Tools(booking.NewService(a.adapter))...)
	registry.Add(memory.NewTool(memory.NewService(a.adapter)))

	if fields := strings.Fields(a.cfg.MCPCommand); len(fields) > 0 {
		remote, err := mcp.Dial(ctx, fields[0], os.Environ(), fields[1:]...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, remote)
		if err := remote.RegisterInto(registry); err != nil {
			return nil, fmt.Errorf("register remote tools: %w", err)
		}
		slog.Info("mcp tools attached", "command", fields[0], "tools", len(remote.Tools()))
	}

	registry.Freeze()
	return registry, nil
}

// newAgent creates an agent for threadID, restoring its conversation and
// agent state from the store when present.
func (a *app) newAgent(ctx context.Context, threadID string) (*agent.Agent, error) {
	state := store.New(a.adapter, store.WithNamespace(store.Key("state", threadID)))
	if err := state.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load agent state: %w", err)
	}

	conv := conversation.New(
		conversation.WithWindowSize(a.cfg.WindowSize),
		conversation.WithAgentState(state),
	)
	if err := conv.Load(ctx, a.adapter, conversationKey(threadID)); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	return agent.New(a.provider, a.registry,
		agent.WithConversation(conv),
		agent.WithSystemPrompt(a.cfg.SystemPrompt),
		agent.WithMaxIterations(a.cfg.MaxIterations),
		agent.WithTimeout(a.cfg.Timeout),
		agent.WithLogger(slog.Default().With("session", threadID)),
	)
}

// persist writes the agent's conversation and state back to the store.
func (a *app) persist(ctx context.Context, threadID string, ag *agent.Agent) error {
	conv := ag.Conversation()
	if err := conv.Save(ctx, a.adapter, conversationKey(threadID)); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	if st := conv.AgentState(); st != nil {
		if err := st.Sync(ctx); err != nil {
			return fmt.Errorf("save agent state: %w", err)
		}
	}
	return nil
}

// Close releases the store and MCP connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

func conversationKey(threadID string) string {
	return store.Key("conversation", threadID)
}

// usageLine renders token usage and, when the model is priced, its cost.
func (a *app) usageLine(u *scout.Usage) string {
	if u == nil {
		return ""
	}
	line := fmt.Sprintf("%d in / %d out tokens", u.InputTokens, u.OutputTokens)
	if cost, ok := model.Cost(a.model, *u); ok {
		line += fmt.Sprintf(", $%.4f", cost)
	}
	return line
}
