package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body map[string]any)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		handler(w, r, body)
	}))
	t.Cleanup(srv.Close)
	return New("test-key", WithBaseURL(srv.URL+"/"))
}

func TestSearch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "golang", body["query"])
		assert.Equal(t, "week", body["time_range"])
		assert.EqualValues(t, 3, body["max_results"])
		assert.Equal(t, []any{"go.dev"}, body["include_domains"])
		w.Write([]byte(`{"results":[{"title":"Go","url":"https://go.dev","content":"The Go language","raw_content":"full"}]}`))
	})

	results, err := c.Search(context.Background(), tool.SearchRequest{
		Query: "golang", MaxResults: 3, TimeRange: "week", IncludeDomains: []string{"go.dev"},
	})
	require.NoError(t, err)
	assert.Equal(t, []tool.WebResult{{Title: "Go", URL: "https://go.dev", Content: "The Go language", RawContent: "full"}}, results)
}

func TestCrawlAndExtract(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
		switch r.URL.Path {
		case "/crawl":
			assert.Equal(t, "https://example.com", body["url"])
			assert.EqualValues(t, 2, body["max_depth"])
			w.Write([]byte(`{"base_url":"example.com","results":[{"url":"https://example.com/a","raw_content":"A"}]}`))
		case "/extract":
			assert.Equal(t, []any{"https://example.com/b"}, body["urls"])
			w.Write([]byte(`{"results":[{"url":"https://example.com/b","raw_content":"B"}],"failed_results":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	crawled, err := c.Crawl(context.Background(), tool.CrawlRequest{URL: "https://example.com", MaxDepth: 2, Limit: 5})
	require.NoError(t, err)
	require.Len(t, crawled, 1)
	assert.Equal(t, "A", crawled[0].Body())

	extracted, err := c.Extract(context.Background(), []string{"https://example.com/b"})
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, "B", extracted[0].RawContent)
}

func TestHTTPErrorsAreCategorized(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusBadGateway, true},
		{"unauthorized", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]any) {
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"detail":{"error":"nope"}}`))
			})

			_, err := c.Search(context.Background(), tool.SearchRequest{Query: "q"})
			require.Error(t, err)
			assert.Equal(t, tt.transient, scout.IsTransient(err))
			assert.Equal(t, 2*time.Second, scout.RetryAfterOf(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestMissingAPIKey(t *testing.T) {
	_, err := New("").Search(context.Background(), tool.SearchRequest{Query: "q"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
