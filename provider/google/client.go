package google

import (
	"context"
	"errors"
	"net/http"

	"github.com/spetersoncode/scout"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK to implement scout.ChatProvider.
// The same client serves the Gemini API and Vertex AI.
type Client struct {
	client  *genai.Client
	model   ChatModel
	baseURL string
	hc      *http.Client
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// New creates a Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts)
}

// NewVertex creates a Vertex AI client for project and location.
// Authentication uses Application Default Credentials.
func NewVertex(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	}, opts)
}

func newClient(ctx context.Context, cfg *genai.ClientConfig, opts []ClientOption) (*Client, error) {
	c := &Client{model: DefaultChatModel}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}
	if c.hc != nil {
		cfg.HTTPClient = c.hc
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.client = client
	return c, nil
}

// Model returns the default model.
func (c *Client) Model() ChatModel {
	return c.model
}

func (c *Client) buildRequest(messages []scout.Message, options *scout.Options) (ChatModel, []*genai.Content, *genai.GenerateContentConfig) {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	contents, system := convertMessages(messages)
	if options.System != "" {
		system = append([]*genai.Part{{Text: options.System}}, system...)
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []scout.Message, opts ...scout.Option) (*scout.Response, error) {
	model, contents, config := c.buildRequest(messages, scout.ApplyOptions(opts...))

	resp, err := c.client.Models.GenerateContent(ctx, model.String(), contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}

	out := &scout.Response{}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" && !part.Thought {
				out.Content += part.Text
			}
		}
		out.ToolCalls = extractToolCalls(resp.Candidates[0].Content.Parts)
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.Usage = scout.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []scout.Message, opts ...scout.Option) (<-chan scout.StreamEvent, error) {
	model, contents, config := c.buildRequest(messages, scout.ApplyOptions(opts...))
	ch := make(chan scout.StreamEvent)

	go func() {
		defer close(ch)

		send := func(ev scout.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		out := &scout.Response{}
		var allParts []*genai.Part
		chunks := 0

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model.String(), contents, config) {
			chunks++
			if err != nil {
				send(scout.StreamEvent{Err: wrapError(err)})
				return
			}
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				send(scout.StreamEvent{Err: &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}})
				return
			}

			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					allParts = append(allParts, part)
					if part.Text != "" && !part.Thought {
						out.Content += part.Text
						if !send(scout.StreamEvent{Delta: part.Text}) {
							return
						}
					}
				}
				out.FinishReason = string(resp.Candidates[0].FinishReason)
			}
			if resp.UsageMetadata != nil {
				out.Usage = scout.Usage{
					InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
					OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
				}
			}
		}

		if chunks == 0 {
			send(scout.StreamEvent{Err: errors.New("google: stream returned no data")})
			return
		}

		out.ToolCalls = extractToolCalls(allParts)
		send(scout.StreamEvent{Done: true, Response: out})
	}()

	return ch, nil
}

var _ scout.ChatProvider = (*Client)(nil)
