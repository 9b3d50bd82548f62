package anthropic

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spetersoncode/scout"
)

// DefaultMaxTokens is used when a request does not set MaxTokens.
const DefaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement scout.ChatProvider.
type Client struct {
	client  *anthropic.Client
	model   ChatModel
	reqOpts []option.RequestOption
}

// ClientOption configures the Anthropic client.
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
		c.reqOpts = append(c.reqOpts, option.WithBaseURL(url))
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.reqOpts = append(c.reqOpts, option.WithHTTPClient(hc))
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	return newClient(DefaultChatModel, []option.RequestOption{option.WithAPIKey(apiKey)}, opts)
}

// NewBedrock creates a client that reaches Claude through Amazon Bedrock.
// Credentials and region come from the default AWS configuration chain
// (environment, shared config, instance role).
func NewBedrock(ctx context.Context, opts ...ClientOption) *Client {
	return newClient(DefaultBedrockModel, []option.RequestOption{bedrock.WithLoadDefaultConfig(ctx)}, opts)
}

// newClient disables SDK retries; model calls are retried by the agent.
func newClient(model ChatModel, base []option.RequestOption, opts []ClientOption) *Client {
	c := &Client{model: model}
	base = append(base, option.WithMaxRetries(0))
	for _, opt := range opts {
		opt(c)
	}
	client := anthropic.NewClient(append(base, c.reqOpts...)...)
	c.client = &client
	return c
}

// Model returns the default model.
func (c *Client) Model() ChatModel {
	return c.model
}

func (c *Client) buildParams(messages []scout.Message, options *scout.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	maxTokens := int64(DefaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	if options.System != "" {
		system = append([]anthropic.TextBlockParam{{Text: options.System}}, system...)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.String()),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 && options.ToolChoice != scout.ToolChoiceNone {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []scout.Message, opts ...scout.Option) (*scout.Response, error) {
	params := c.buildParams(messages, scout.ApplyOptions(opts...))

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []scout.Message, opts ...scout.Option) (<-chan scout.StreamEvent, error) {
	params := c.buildParams(messages, scout.ApplyOptions(opts...))

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan scout.StreamEvent)

	go func() {
		defer close(ch)
		defer stream.Close()

		send := func(ev scout.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var acc anthropic.Message
		for stream.Next() {
			event := stream.Current()
			if err := acc.Accumulate(event); err != nil {
				send(scout.StreamEvent{Err: err})
				return
			}

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" && textDelta.Text != "" {
					if !send(scout.StreamEvent{Delta: textDelta.Text}) {
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(scout.StreamEvent{Err: wrapError(err)})
			return
		}

		send(scout.StreamEvent{Done: true, Response: convertResponse(&acc)})
	}()

	return ch, nil
}

func convertResponse(msg *anthropic.Message) *scout.Response {
	content := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return &scout.Response{
		Content:      content,
		FinishReason: string(msg.StopReason),
		Usage: scout.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		ToolCalls: extractToolCalls(msg.Content),
	}
}

// wrapError categorizes API errors by status code and Retry-After.
// Other errors pass through for the retry heuristics.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return scout.NewHTTPError("anthropic", apiErr.StatusCode, header, err)
}

var _ scout.ChatProvider = (*Client)(nil)
