// Package model estimates what agent runs cost.
//
// Prices are per million tokens (USD) for the chat models the providers
// ship with. Look a model up by its API identifier; dated, pinned and
// Bedrock identifiers resolve to their family:
//
//	cost, ok := model.Cost("us.anthropic.claude-sonnet-4-5-20250929-v1:0", result.Usage)
package model
