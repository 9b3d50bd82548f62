package model

import (
	"strings"

	"github.com/spetersoncode/scout"
)

// LongContextThreshold is the prompt size above which long-context prices
// apply, for models that have them.
const LongContextThreshold = 200_000

// ChatPricing contains pricing per million tokens (USD) for a chat model.
type ChatPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	// InputPerMillionLong and OutputPerMillionLong apply to prompts over
	// LongContextThreshold tokens. Zero means no long-context tier.
	InputPerMillionLong  float64
	OutputPerMillionLong float64
}

// HasLongContextPricing returns true if the model has tiered pricing for long context.
func (p ChatPricing) HasLongContextPricing() bool {
	return p.InputPerMillionLong > 0 || p.OutputPerMillionLong > 0
}

// Cost returns the price of usage in USD.
func (p ChatPricing) Cost(usage scout.Usage) float64 {
	in, out := p.InputPerMillion, p.OutputPerMillion
	if p.HasLongContextPricing() && usage.InputTokens > LongContextThreshold {
		in, out = p.InputPerMillionLong, p.OutputPerMillionLong
	}
	return float64(usage.InputTokens)/1_000_000*in + float64(usage.OutputTokens)/1_000_000*out
}

// Model pricing last verified: December 14, 2025
var chatPricing = map[string]ChatPricing{
	// Anthropic
	"claude-opus-4-5":   {InputPerMillion: 5.00, OutputPerMillion: 25.00},
	"claude-sonnet-4-5": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"claude-haiku-4-5":  {InputPerMillion: 1.00, OutputPerMillion: 5.00},

	// OpenAI
	"gpt-5.2":      {InputPerMillion: 1.75, OutputPerMillion: 14.00},
	"gpt-5.1":      {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gpt-5":        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gpt-5-mini":   {InputPerMillion: 0.25, OutputPerMillion: 1.00},
	"gpt-5-nano":   {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gpt-4.1":      {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	"gpt-4.1-mini": {InputPerMillion: 0.40, OutputPerMillion: 1.60},
	"o4-mini":      {InputPerMillion: 0.50, OutputPerMillion: 2.00},

	// Google
	"gemini-3-pro-preview":  {InputPerMillion: 2.00, OutputPerMillion: 12.00, InputPerMillionLong: 4.00, OutputPerMillionLong: 18.00},
	"gemini-2.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 10.00, InputPerMillionLong: 2.50, OutputPerMillionLong: 15.00},
	"gemini-2.5-flash":      {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"gemini-2.5-flash-lite": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
}

// Pricing returns the pricing for a model identifier. An identifier that is
// not listed resolves to the longest listed family name it contains, so
// "claude-sonnet-4-5-20250929" finds "claude-sonnet-4-5".
func Pricing(id string) (ChatPricing, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if p, ok := chatPricing[id]; ok {
		return p, true
	}

	var best string
	for name := range chatPricing {
		if len(name) > len(best) && containsFamily(id, name) {
			best = name
		}
	}
	if best == "" {
		return ChatPricing{}, false
	}
	return chatPricing[best], true
}

// containsFamily reports whether name occurs in id followed by a
// non-identifier boundary, so "gpt-5" does not match "gpt-5-mini".
func containsFamily(id, name string) bool {
	for i := 0; ; {
		j := strings.Index(id[i:], name)
		if j < 0 {
			return false
		}
		end := i + j + len(name)
		if end == len(id) || !isFamilyChar(id[end], id[end:]) {
			return true
		}
		i += j + 1
	}
}

// isFamilyChar reports whether the text at rest continues a model family
// name rather than starting a date or version suffix.
func isFamilyChar(c byte, rest string) bool {
	if c == '.' {
		return len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9'
	}
	if c != '-' {
		return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
	}
	// "-2025..." or "-v1" begin a date or version suffix; "-mini" continues
	// the family.
	if len(rest) > 1 && (rest[1] >= '0' && rest[1] <= '9' || rest[1] == 'v') {
		return false
	}
	return true
}

// Cost returns the price of usage for model id, and false when the model
// has no known pricing.
func Cost(id string, usage scout.Usage) (float64, bool) {
	p, ok := Pricing(id)
	if !ok {
		return 0, false
	}
	return p.Cost(usage), true
}
