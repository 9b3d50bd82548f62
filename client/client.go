package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/provider/anthropic"
	"github.com/spetersoncode/scout/provider/google"
	"github.com/spetersoncode/scout/provider/openai"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config selects and configures the inference backend.
type Config struct {
	// Provider names the backend. Empty means anthropic.
	Provider scout.Provider

	// Model overrides the provider's default model.
	Model string

	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// VertexProject and VertexLocation configure the vertex provider.
	VertexProject  string
	VertexLocation string
}

// ErrMissingAPIKey is returned when the selected provider has no API key.
type ErrMissingAPIKey struct {
	Provider scout.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnknownProvider is returned for a provider name that is not supported.
type ErrUnknownProvider struct {
	Provider scout.Provider
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Provider)
}

// Client is a chat provider together with the backend and model it talks to.
type Client struct {
	scout.ChatProvider

	provider scout.Provider
	model    string
}

// Provider returns the backend this client talks to.
func (c *Client) Provider() scout.Provider { return c.provider }

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// New creates the provider named in cfg. Bedrock and vertex use ambient
// cloud credentials; the other providers require their API key.
func New(ctx context.Context, cfg Config) (*Client, error) {
	name := scout.Provider(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	if name == "" {
		name = scout.ProviderAnthropic
	}

	switch name {
	case scout.ProviderAnthropic, scout.ProviderBedrock:
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(anthropic.ChatModel(cfg.Model)))
		}
		var c *anthropic.Client
		if name == scout.ProviderBedrock {
			c = anthropic.NewBedrock(ctx, opts...)
		} else {
			if cfg.APIKeys.Anthropic == "" {
				return nil, &ErrMissingAPIKey{Provider: name}
			}
			c = anthropic.New(cfg.APIKeys.Anthropic, opts...)
		}
		return &Client{ChatProvider: c, provider: name, model: c.Model().String()}, nil

	case scout.ProviderOpenAI:
		if cfg.APIKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: name}
		}
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(openai.ChatModel(cfg.Model)))
		}
		c := openai.New(cfg.APIKeys.OpenAI, opts...)
		return &Client{ChatProvider: c, provider: name, model: c.Model().String()}, nil

	case scout.ProviderGoogle, scout.ProviderVertex:
		var opts []google.ClientOption
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(google.ChatModel(cfg.Model)))
		}
		var (
			c   *google.Client
			err error
		)
		if name == scout.ProviderVertex {
			if cfg.VertexProject == "" {
				return nil, fmt.Errorf("vertex provider requires a project")
			}
			c, err = google.NewVertex(ctx, cfg.VertexProject, cfg.VertexLocation, opts...)
		} else {
			if cfg.APIKeys.Google == "" {
				return nil, &ErrMissingAPIKey{Provider: name}
			}
			c, err = google.New(ctx, cfg.APIKeys.Google, opts...)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s client: %w", name, err)
		}
		return &Client{ChatProvider: c, provider: name, model: c.Model().String()}, nil

	default:
		return nil, &ErrUnknownProvider{Provider: name}
	}
}
