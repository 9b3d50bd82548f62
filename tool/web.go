package tool

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TruncationMarker is appended to result bodies cut to the content budget.
const TruncationMarker = "... [truncated]"

// Defaults for the web tools.
const (
	DefaultContentBudget = 4000
	DefaultMaxResults    = 5
	DefaultMaxDepth      = 1
	DefaultCrawlLimit    = 10
	DefaultWebTimeout    = 30 * time.Second
)

const resultSeparator = "----------------------------------------"

// WebResult is one item returned by a search, crawl or extract backend.
type WebResult struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url"`
	Content    string `json:"content,omitempty"`
	RawContent string `json:"raw_content,omitempty"`
}

// Body returns the raw content when present, otherwise the summary content.
func (r WebResult) Body() string {
	if strings.TrimSpace(r.RawContent) != "" {
		return r.RawContent
	}
	return r.Content
}

// SearchRequest describes a web search.
type SearchRequest struct {
	Query          string
	MaxResults     int
	TimeRange      string
	IncludeDomains []string
}

// CrawlRequest describes a crawl rooted at one URL.
type CrawlRequest struct {
	URL          string
	MaxDepth     int
	Limit        int
	Instructions string
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]WebResult, error)
}

// Crawler walks a site starting from a URL.
type Crawler interface {
	Crawl(ctx context.Context, req CrawlRequest) ([]WebResult, error)
}

// Extractor fetches the content of specific pages.
type Extractor interface {
	Extract(ctx context.Context, urls []string) ([]WebResult, error)
}

type webConfig struct {
	contentBudget int
	maxResults    int
	maxDepth      int
	limit         int
	timeout       time.Duration
}

// WebOption configures the web tools.
type WebOption func(*webConfig)

// WithContentBudget sets the maximum number of characters kept per result body.
func WithContentBudget(n int) WebOption {
	return func(c *webConfig) {
		if n > 0 {
			c.contentBudget = n
		}
	}
}

// WithMaxResults sets the number of search results requested when the
// model does not ask for a specific count.
func WithMaxResults(n int) WebOption {
	return func(c *webConfig) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithCrawlDefaults sets the crawl depth and page limit used when the model
// leaves them out.
func WithCrawlDefaults(maxDepth, limit int) WebOption {
	return func(c *webConfig) {
		if maxDepth > 0 {
			c.maxDepth = maxDepth
		}
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithWebTimeout bounds each backend call.
func WithWebTimeout(d time.Duration) WebOption {
	return func(c *webConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func applyWebOptions(opts []WebOption) webConfig {
	c := webConfig{
		contentBudget: DefaultContentBudget,
		maxResults:    DefaultMaxResults,
		maxDepth:      DefaultMaxDepth,
		limit:         DefaultCrawlLimit,
		timeout:       DefaultWebTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SearchArgs are the arguments of the web_search tool.
type SearchArgs struct {
	Query          string   `json:"query" desc:"The search query" required:"true"`
	TimeRange      string   `json:"time_range,omitempty" desc:"Restrict results to a recent time window" enum:"day,week,month,year"`
	IncludeDomains []string `json:"include_domains,omitempty" desc:"Only return results from these domains"`
	MaxResults     int      `json:"max_results,omitempty" desc:"Number of results to return"`
}

// CrawlArgs are the arguments of the web_crawl tool.
type CrawlArgs struct {
	URL          string `json:"url" desc:"The URL to start crawling from" required:"true"`
	MaxDepth     int    `json:"max_depth,omitempty" desc:"How many links deep to follow from the start URL"`
	Limit        int    `json:"limit,omitempty" desc:"Maximum number of pages to return"`
	Instructions string `json:"instructions,omitempty" desc:"Natural language guidance on which pages to focus on"`
}

// ExtractArgs are the arguments of the web_extract tool.
type ExtractArgs struct {
	URLs []string `json:"urls" desc:"The page URLs to extract content from" required:"true"`
}

var timeRanges = map[string]bool{"day": true, "week": true, "month": true, "year": true}

// NewSearchTool returns the web_search tool backed by s.
// Backend failures are reported to the model as text, never as Go errors.
func NewSearchTool(s Searcher, opts ...WebOption) Registration {
	cfg := applyWebOptions(opts)
	return Func("web_search",
		"Search the web for current information. Returns titles, URLs and page content for the top results.",
		func(ctx context.Context, args SearchArgs) (string, error) {
			req := SearchRequest{
				Query:          strings.TrimSpace(args.Query),
				MaxResults:     args.MaxResults,
				IncludeDomains: args.IncludeDomains,
			}
			if req.MaxResults <= 0 {
				req.MaxResults = cfg.maxResults
			}
			if tr := strings.ToLower(strings.TrimSpace(args.TimeRange)); timeRanges[tr] {
				req.TimeRange = tr
			}

			ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
			defer cancel()

			results, err := s.Search(ctx, req)
			if err != nil {
				return fmt.Sprintf("Error searching for \"%s\": %v", req.Query, err), nil
			}
			if len(results) == 0 {
				return "No search results found.", nil
			}
			return FormatResults(results, cfg.contentBudget, false), nil
		})
}

// NewCrawlTool returns the web_crawl tool backed by c.
func NewCrawlTool(c Crawler, opts ...WebOption) Registration {
	cfg := applyWebOptions(opts)
	return Func("web_crawl",
		"Crawl a website starting from a URL and return the content of the pages found.",
		func(ctx context.Context, args CrawlArgs) (string, error) {
			req := CrawlRequest{
				URL:          strings.TrimSpace(args.URL),
				MaxDepth:     args.MaxDepth,
				Limit:        args.Limit,
				Instructions: args.Instructions,
			}
			if req.MaxDepth <= 0 {
				req.MaxDepth = cfg.maxDepth
			}
			if req.Limit <= 0 {
				req.Limit = cfg.limit
			}

			ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
			defer cancel()

			results, err := c.Crawl(ctx, req)
			if err != nil {
				return fmt.Sprintf("Error crawling %s: %v", req.URL, err), nil
			}
			if len(results) == 0 {
				return "No crawl results found.", nil
			}
			return FormatResults(results, cfg.contentBudget, true), nil
		})
}

// NewExtractTool returns the web_extract tool backed by e.
func NewExtractTool(e Extractor, opts ...WebOption) Registration {
	cfg := applyWebOptions(opts)
	return Func("web_extract",
		"Extract the full content of one or more web pages.",
		func(ctx context.Context, args ExtractArgs) (string, error) {
			urls := make([]string, 0, len(args.URLs))
			for _, u := range args.URLs {
				if u = strings.TrimSpace(u); u != "" {
					urls = append(urls, u)
				}
			}
			if len(urls) == 0 {
				return "No extract results found.", nil
			}

			ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
			defer cancel()

			results, err := e.Extract(ctx, urls)
			if err != nil {
				return fmt.Sprintf("Error extracting %s: %v", strings.Join(urls, ", "), err), nil
			}
			if len(results) == 0 {
				return "No extract results found.", nil
			}
			return FormatResults(results, cfg.contentBudget, true), nil
		})
}

// FormatResults renders results as numbered blocks for the model.
// With titleFallback set, a result without a title borrows the first line
// of its body.
func FormatResults(results []WebResult, budget int, titleFallback bool) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n" + resultSeparator + "\n\n")
		}
		body := r.Body()
		title := strings.TrimSpace(r.Title)
		if title == "" && titleFallback {
			title = firstLine(body)
		}

		fmt.Fprintf(&b, "RESULT %d:\n", i+1)
		if title != "" {
			fmt.Fprintf(&b, "Title: %s\n", title)
		}
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Content: %s\n", Truncate(body, budget))
	}
	return b.String()
}

// Truncate cuts s to at most budget characters, appending TruncationMarker
// when anything was removed. A non-positive budget disables truncation.
func Truncate(s string, budget int) string {
	if budget <= 0 || utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return string(runes[:budget]) + TruncationMarker
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return Truncate(line, 100)
		}
	}
	return ""
}
