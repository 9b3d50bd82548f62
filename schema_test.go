package scout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaArgs struct {
	Query     string   `json:"query" desc:"Search query" required:"true"`
	TimeRange string   `json:"time_range,omitempty" enum:"day, week,month,year"`
	Domains   []string `json:"include_domains"`
	Limit     *int     `json:"limit"`
	Score     float64  `json:"score"`
	Strict    bool     `json:"strict"`
	Nested    struct {
		Name string `json:"name" required:"true"`
	} `json:"nested"`
	Ignored  string `json:"-"`
	internal string
}

func TestSchemaFor(t *testing.T) {
	raw, err := SchemaFor[schemaArgs]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"query"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Len(t, props, 7)

	query := props["query"].(map[string]any)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "Search query", query["description"])

	tr := props["time_range"].(map[string]any)
	assert.Equal(t, []any{"day", "week", "month", "year"}, tr["enum"])

	domains := props["include_domains"].(map[string]any)
	assert.Equal(t, "array", domains["type"])
	assert.Equal(t, map[string]any{"type": "string"}, domains["items"])

	assert.Equal(t, "integer", props["limit"].(map[string]any)["type"])
	assert.Equal(t, "number", props["score"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["strict"].(map[string]any)["type"])

	nested := props["nested"].(map[string]any)
	assert.Equal(t, "object", nested["type"])
	assert.Equal(t, []any{"name"}, nested["required"])
}

func TestSchemaForRejectsNonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	assert.Error(t, err)

	assert.Panics(t, func() { MustSchemaFor[int]() })
}
