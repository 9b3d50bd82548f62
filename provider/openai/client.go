package openai

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spetersoncode/scout"
)

// Client wraps the OpenAI SDK to implement scout.ChatProvider.
type Client struct {
	client  *openai.Client
	model   ChatModel
	reqOpts []option.RequestOption
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
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

// New creates a new OpenAI client with the given API key.
// SDK retries are disabled; model calls are retried by the agent.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{model: DefaultChatModel}
	for _, opt := range opts {
		opt(c)
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, c.reqOpts...)
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}

// Model returns the default model.
func (c *Client) Model() ChatModel {
	return c.model
}

func (c *Client) buildParams(messages []scout.Message, options *scout.Options) openai.ChatCompletionNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	params := openai.ChatCompletionNewParams{
		Model:    model.String(),
		Messages: convertMessages(messages, options.System),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
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

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &scout.Error{Msg: "openai: response has no choices", Cat: scout.ErrorTransient}
	}

	choice := resp.Choices[0]
	return &scout.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: scout.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []scout.Message, opts ...scout.Option) (<-chan scout.StreamEvent, error) {
	params := c.buildParams(messages, scout.ApplyOptions(opts...))
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
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

		var acc openai.ChatCompletionAccumulator
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !send(scout.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(scout.StreamEvent{Err: wrapError(err)})
			return
		}
		if len(acc.Choices) == 0 {
			send(scout.StreamEvent{Err: &scout.Error{Msg: "openai: stream has no choices", Cat: scout.ErrorTransient}})
			return
		}

		completion := acc.Choices[0]
		send(scout.StreamEvent{
			Done: true,
			Response: &scout.Response{
				Content:      completion.Message.Content,
				FinishReason: string(completion.FinishReason),
				Usage: scout.Usage{
					InputTokens:  int(acc.Usage.PromptTokens),
					OutputTokens: int(acc.Usage.CompletionTokens),
				},
				ToolCalls: extractToolCalls(completion.Message.ToolCalls),
			},
		})
	}()

	return ch, nil
}

var _ scout.ChatProvider = (*Client)(nil)
