package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crawlOnly struct {
	URL   string `json:"url" required:"true"`
	Limit int    `json:"limit,omitempty"`
}

func TestDecodeArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want testArgs
	}{
		{"plain object", `{"query":"go generics"}`, testArgs{Query: "go generics"}},
		{"empty is empty object", ``, testArgs{}},
		{"code fence", "```json\n{\"query\":\"fenced\"}\n```", testArgs{Query: "fenced"}},
		{"surrounding prose", `Sure! Here you go: {"query":"prose"} hope that helps`, testArgs{Query: "prose"}},
		{"trailing comma", `{"query":"comma",}`, testArgs{Query: "comma"}},
		{"double encoded", `"{\"query\":\"nested\"}"`, testArgs{Query: "nested"}},
		{"bare string", `latest rust release`, testArgs{Query: "latest rust release"}},
		{"quoted string", `"quoted query"`, testArgs{Query: "quoted query"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testArgs
			require.NoError(t, DecodeArgs(tt.raw, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeArgsURLField(t *testing.T) {
	var got crawlOnly
	require.NoError(t, DecodeArgs(`please crawl https://example.com/docs.`, &got))
	assert.Equal(t, "https://example.com/docs", got.URL)

	var none crawlOnly
	err := DecodeArgs(`no link here`, &none)
	require.Error(t, err)
	assert.True(t, IsInvalidArguments(err))
}

func TestDecodeArgsGivesUp(t *testing.T) {
	var args calcArgs
	err := DecodeArgs(`{"a": 1, "b":`, &args)
	require.Error(t, err)

	var invalid *ErrInvalidArguments
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, `{"a": 1, "b":`, invalid.Raw)
}
