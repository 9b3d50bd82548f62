package agent

import "errors"

var (
	// ErrIterationLimitExceeded is returned when the model keeps requesting
	// tools for MaxIterations model calls without giving a final answer.
	ErrIterationLimitExceeded = errors.New("agent: iteration limit exceeded")

	// ErrNilProvider is returned by New without a ChatProvider.
	ErrNilProvider = errors.New("agent: provider is nil")

	// ErrNilRegistry is returned by New without a tool registry.
	ErrNilRegistry = errors.New("agent: registry is nil")

	// ErrIncompleteStream is returned when a model stream closes before
	// delivering its final response.
	ErrIncompleteStream = errors.New("agent: model stream ended without a response")
)
