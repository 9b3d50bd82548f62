package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spetersoncode/scout"
)

// Format styles understood by the format_response tool.
const (
	FormatAuto       = "auto"
	FormatDirect     = "direct"
	FormatNarrative  = "narrative"
	FormatReport     = "report"
	FormatSummary    = "summary"
	FormatList       = "list"
	FormatComparison = "comparison"
)

var styleGuides = map[string]string{
	FormatDirect:     "Answer the question directly in one or two short paragraphs. Lead with the answer.",
	FormatNarrative:  "Write flowing prose that tells the story behind the findings, connecting facts in a logical sequence.",
	FormatReport:     "Write a structured report with a title, an executive summary, sections with headings, and a conclusion.",
	FormatSummary:    "Write a concise summary of the key points in at most three short paragraphs.",
	FormatList:       "Present the findings as a bulleted list, one fact per bullet, most important first.",
	FormatComparison: "Compare the options side by side. Use a markdown table for the attributes, then a short verdict.",
	FormatAuto:       "Choose the presentation that best fits the question: a direct answer, a list, a comparison table or a short report.",
}

const citationRules = `Cite every factual claim inline with a bracketed number like [1] that refers to the source URL it came from.
End with a "Sources" section listing each cited number with its title and URL.
Use only information present in the provided content. Do not invent sources.`

// FormatArgs are the arguments of the format_response tool.
type FormatArgs struct {
	Content   string `json:"content" desc:"The gathered research content to format, including source URLs" required:"true"`
	Format    string `json:"format,omitempty" desc:"Presentation style" enum:"auto,direct,narrative,report,summary,list,comparison"`
	UserQuery string `json:"user_query,omitempty" desc:"The original question the response must answer"`
}

type formatterConfig struct {
	model     string
	maxTokens int
	timeout   time.Duration
}

// FormatterOption configures the format_response tool.
type FormatterOption func(*formatterConfig)

// WithFormatterModel sets the model used for the formatting call.
func WithFormatterModel(model string) FormatterOption {
	return func(c *formatterConfig) { c.model = model }
}

// WithFormatterMaxTokens caps the length of the formatted response.
func WithFormatterMaxTokens(n int) FormatterOption {
	return func(c *formatterConfig) { c.maxTokens = n }
}

// WithFormatterTimeout bounds the formatting call.
func WithFormatterTimeout(d time.Duration) FormatterOption {
	return func(c *formatterConfig) { c.timeout = d }
}

// FormatterPrompt returns the system prompt used for a style. Unknown styles
// fall back to auto.
func FormatterPrompt(style string) string {
	guide, ok := styleGuides[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		guide = styleGuides[FormatAuto]
	}
	return "You format research findings into a final answer for the user.\n\n" +
		guide + "\n\n" + citationRules
}

// NewFormatterTool returns the format_response tool. It makes one nested
// call to p with a style-specific system prompt and returns the model's text.
func NewFormatterTool(p scout.ChatProvider, opts ...FormatterOption) Registration {
	cfg := formatterConfig{maxTokens: 4096, timeout: DefaultWebTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	return Func("format_response",
		"Format gathered research into a well-structured final answer with inline citations and a Sources list.",
		func(ctx context.Context, args FormatArgs) (string, error) {
			if strings.TrimSpace(args.Content) == "" {
				return "Error formatting response: content is empty", nil
			}

			var prompt strings.Builder
			if q := strings.TrimSpace(args.UserQuery); q != "" {
				fmt.Fprintf(&prompt, "Question: %s\n\n", q)
			}
			prompt.WriteString("Content:\n")
			prompt.WriteString(args.Content)

			chatOpts := []scout.Option{
				scout.WithSystem(FormatterPrompt(args.Format)),
				scout.WithMaxTokens(cfg.maxTokens),
			}
			if cfg.model != "" {
				chatOpts = append(chatOpts, scout.WithModel(cfg.model))
			}

			if cfg.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
				defer cancel()
			}

			resp, err := p.Chat(ctx, []scout.Message{scout.NewUserMessage(prompt.String())}, chatOpts...)
			if err != nil {
				return fmt.Sprintf("Error formatting response: %v", err), nil
			}
			return resp.Content, nil
		})
}
