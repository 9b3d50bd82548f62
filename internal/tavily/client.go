// Package tavily is a small client for the Tavily search, crawl and extract
// REST endpoints. It returns results in the shape the web tools consume.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/tool"
)

// DefaultBaseURL is the Tavily API root.
const DefaultBaseURL = "https://api.tavily.com"

// ErrMissingAPIKey is returned when the client has no API key.
var ErrMissingAPIKey = errors.New("tavily: API key is missing")

// Client calls the Tavily API.
type Client struct {
	apiKey      string
	baseURL     string
	searchDepth string
	rawContent  bool
	client      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests and proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSearchDepth sets Tavily's search_depth (basic or advanced).
func WithSearchDepth(depth string) Option {
	return func(c *Client) { c.searchDepth = depth }
}

// WithRawContent asks search to include the full page text of each result.
func WithRawContent(include bool) Option {
	return func(c *Client) { c.rawContent = include }
}

// New constructs a Tavily client with a 30 second request timeout.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		searchDepth: "basic",
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	TimeRange         string   `json:"time_range,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content,omitempty"`
}

type crawlRequest struct {
	URL          string `json:"url"`
	MaxDepth     int    `json:"max_depth,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type extractRequest struct {
	URLs []string `json:"urls"`
}

type result struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	RawContent string `json:"raw_content"`
}

type response struct {
	Results []result `json:"results"`
}

// Search runs a web search.
func (c *Client) Search(ctx context.Context, req tool.SearchRequest) ([]tool.WebResult, error) {
	body := searchRequest{
		Query:             req.Query,
		SearchDepth:       c.searchDepth,
		MaxResults:        req.MaxResults,
		TimeRange:         req.TimeRange,
		IncludeDomains:    req.IncludeDomains,
		IncludeRawContent: c.rawContent,
	}
	return c.post(ctx, "/search", body)
}

// Crawl walks a site from req.URL.
func (c *Client) Crawl(ctx context.Context, req tool.CrawlRequest) ([]tool.WebResult, error) {
	body := crawlRequest{
		URL:          req.URL,
		MaxDepth:     req.MaxDepth,
		Limit:        req.Limit,
		Instructions: req.Instructions,
	}
	return c.post(ctx, "/crawl", body)
}

// Extract fetches the content of the given pages.
func (c *Client) Extract(ctx context.Context, urls []string) ([]tool.WebResult, error) {
	return c.post(ctx, "/extract", extractRequest{URLs: urls})
}

func (c *Client) post(ctx context.Context, path string, body any) ([]tool.WebResult, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, scout.NewHTTPError(
			fmt.Sprintf("tavily %s: http %d", path, resp.StatusCode),
			resp.StatusCode, resp.Header, errorDetail(msg))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tavily %s: decode response: %w", path, err)
	}

	results := make([]tool.WebResult, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, tool.WebResult{
			Title:      r.Title,
			URL:        r.URL,
			Content:    r.Content,
			RawContent: r.RawContent,
		})
	}
	return results, nil
}

// errorDetail pulls the message out of a Tavily error body, which is either
// {"detail":{"error":"..."}} or plain text.
func errorDetail(body []byte) error {
	var parsed struct {
		Detail struct {
			Error string `json:"error"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail.Error != "" {
		return errors.New(parsed.Detail.Error)
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return errors.New(s)
	}
	return nil
}

var (
	_ tool.Searcher  = (*Client)(nil)
	_ tool.Crawler   = (*Client)(nil)
	_ tool.Extractor = (*Client)(nil)
)
