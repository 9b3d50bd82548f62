package agent

import (
	"log/slog"
	"time"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/conversation"
	"github.com/spetersoncode/scout/internal/retry"
)

// Defaults applied by ApplyOptions.
const (
	DefaultMaxIterations  = 10
	DefaultHandlerTimeout = 30 * time.Second
)

// Options contains configuration for agent execution.
type Options struct {
	// MaxIterations bounds the number of model calls per run. Default is 10.
	MaxIterations int

	// Timeout sets a deadline for the entire run.
	// A value of 0 means no timeout (context deadline applies).
	Timeout time.Duration

	// HandlerTimeout bounds each individual tool handler.
	// A value of 0 means no per-handler timeout. Default is 30 seconds.
	HandlerTimeout time.Duration

	// ParallelToolCalls runs the tool calls of one turn concurrently.
	// Results are appended in the order the model requested them either way.
	// Default is true.
	ParallelToolCalls bool

	// Streaming uses ChatStream so text deltas reach RunStream consumers.
	// Default is true.
	Streaming bool

	// SystemPrompt is sent as the system instruction on every model call.
	SystemPrompt string

	// Retry governs model call retries on transient errors.
	Retry retry.Config

	// Logger receives structured run logs. Default is slog.Default().
	Logger *slog.Logger

	// Conversation is the history the agent reads and appends to. Only
	// meaningful at construction; New creates one when unset.
	Conversation *conversation.State

	// ChatOptions are passed through to the underlying ChatProvider.
	ChatOptions []scout.Option
}

// Option is a functional option for configuring an agent or a single run.
type Option func(*Options)

// WithMaxIterations sets the maximum number of model calls per run.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTimeout sets a deadline for the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each individual tool handler.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithStreaming chooses between ChatStream (true) and Chat (false).
func WithStreaming(enabled bool) Option {
	return func(o *Options) {
		o.Streaming = enabled
	}
}

// WithSystemPrompt sets the system instruction.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithRetry sets how many attempts a model call gets and the initial
// backoff between them. Tool calls are never retried.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *Options) {
		o.Retry.MaxAttempts = maxAttempts
		o.Retry.InitialDelay = initialDelay
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithConversation makes the agent use an existing conversation, for
// example one restored with conversation.State.Load.
func WithConversation(c *conversation.State) Option {
	return func(o *Options) {
		o.Conversation = c
	}
}

// WithChatOptions passes options through to the ChatProvider.
func WithChatOptions(opts ...scout.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return WithChatOptions(scout.WithModel(model))
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return WithChatOptions(scout.WithMaxTokens(n))
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return WithChatOptions(scout.WithTemperature(t))
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations:     DefaultMaxIterations,
		HandlerTimeout:    DefaultHandlerTimeout,
		ParallelToolCalls: true,
		Streaming:         true,
		Retry:             retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxIterations < 1 {
		o.MaxIterations = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
