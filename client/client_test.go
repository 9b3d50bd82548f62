package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/provider/anthropic"
	"github.com/spetersoncode/scout/provider/google"
	"github.com/spetersoncode/scout/provider/openai"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	keys := APIKeys{Anthropic: "a-key", OpenAI: "o-key", Google: "g-key"}

	tests := []struct {
		name     string
		cfg      Config
		provider scout.Provider
		model    string
	}{
		{"default is anthropic", Config{APIKeys: keys}, scout.ProviderAnthropic, anthropic.DefaultChatModel.String()},
		{"anthropic model override", Config{Provider: "anthropic", Model: "claude-haiku-4-5", APIKeys: keys}, scout.ProviderAnthropic, "claude-haiku-4-5"},
		{"openai", Config{Provider: "OpenAI", APIKeys: keys}, scout.ProviderOpenAI, openai.DefaultChatModel.String()},
		{"google", Config{Provider: "google", Model: "gemini-2.5-pro", APIKeys: keys}, scout.ProviderGoogle, "gemini-2.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(ctx, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, c.Provider())
			assert.Equal(t, tt.model, c.Model())
			assert.NotNil(t, c.ChatProvider)
		})
	}
}

func TestNewGoogleDefaultModel(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: scout.ProviderGoogle, APIKeys: APIKeys{Google: "g-key"}})
	require.NoError(t, err)
	assert.Equal(t, google.DefaultChatModel.String(), c.Model())
}

func TestNewMissingKey(t *testing.T) {
	for _, p := range []scout.Provider{scout.ProviderAnthropic, scout.ProviderOpenAI, scout.ProviderGoogle} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := New(context.Background(), Config{Provider: p})
			var missing *ErrMissingAPIKey
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, p, missing.Provider)
			assert.Contains(t, err.Error(), p.String())
		})
	}
}

func TestNewVertexRequiresProject(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: scout.ProviderVertex})
	assert.ErrorContains(t, err, "project")
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "llamafile"})
	var unknown *ErrUnknownProvider
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, scout.Provider("llamafile"), unknown.Provider)
}
