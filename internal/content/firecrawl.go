// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// firecrawlAPIBase is the Firecrawl API root. Declared as a var so tests
// can substitute an httptest server.
var firecrawlAPIBase = "https://api.firecrawl.dev"

// Firecrawl searches and scrapes through the Firecrawl API, requesting
// page content as Markdown.
type Firecrawl struct {
	APIKey       string
	BaseURL      string
	Client       *http.Client
	SnippetLimit int
	Log          *zap.Logger
}

// Name returns the backend identifier.
func (f *Firecrawl) Name() string { return string(types.ContentFirecrawl) }

type firecrawlSearchRequest struct {
	Query         string                 `json:"query"`
	Limit         int                    `json:"limit"`
	ScrapeOptions firecrawlScrapeOptions `json:"scrapeOptions"`
}

type firecrawlScrapeOptions struct {
	Formats []string `json:"formats"`
}

type firecrawlScrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlSearchResponse struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Error   string            `json:"error,omitempty"`
}

type firecrawlScrapeResponse struct {
	Success bool          `json:"success"`
	Data    firecrawlPage `json:"data"`
	Error   string        `json:"error,omitempty"`
}

type firecrawlPage struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
	Metadata    struct {
		Title     string `json:"title"`
		SourceURL string `json:"sourceURL"`
	} `json:"metadata"`
}

// Search runs a Firecrawl web search and returns each hit's Markdown as
// the snippet.
func (f *Firecrawl) Search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	log := backendLog(f.Log, f.Name())
	log.Debug("searching", zap.String("query", query), zap.Int("limit", resultLimit(limit)))
	sources, err := f.search(ctx, query, resultLimit(limit))
	logSearch(log, sources, err)
	return sources, err
}

func (f *Firecrawl) search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	body := firecrawlSearchRequest{
		Query:         query,
		Limit:         limit,
		ScrapeOptions: firecrawlScrapeOptions{Formats: []string{"markdown"}},
	}

	var resp firecrawlSearchResponse
	if err := httputil.PostJSON(ctx, f.Client, "Firecrawl", f.endpoint("/v1/search"), f.headers(), body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success && resp.Error != "" {
		return nil, fmt.Errorf("Firecrawl search: %s", resp.Error)
	}

	sources := make([]types.RawSource, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var page firecrawlPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("parsing Firecrawl search result: %w", err)
		}
		sources = append(sources, types.RawSource{
			Title:   firstNonEmpty(page.Metadata.Title, page.Title),
			URL:     firstNonEmpty(page.URL, page.Metadata.SourceURL),
			Snippet: truncate(firstNonEmpty(page.Markdown, page.Description), f.SnippetLimit),
			Raw:     raw,
		})
		if len(sources) >= limit {
			break
		}
	}
	return sources, nil
}

// Scrape fetches one page as Markdown.
func (f *Firecrawl) Scrape(ctx context.Context, url string) ScrapeResult {
	return logScrape(backendLog(f.Log, f.Name()), f.scrape(ctx, url))
}

func (f *Firecrawl) scrape(ctx context.Context, url string) ScrapeResult {
	body := firecrawlScrapeRequest{URL: url, Formats: []string{"markdown"}}

	var resp firecrawlScrapeResponse
	if err := httputil.PostJSON(ctx, f.Client, "Firecrawl", f.endpoint("/v1/scrape"), f.headers(), body, &resp); err != nil {
		return scrapeFailure(url, err)
	}
	if !resp.Success && resp.Error != "" {
		return scrapeFailure(url, fmt.Errorf("Firecrawl scrape: %s", resp.Error))
	}
	return scrapeResult(url, resp.Data.Markdown)
}

func (f *Firecrawl) endpoint(path string) string {
	base := f.BaseURL
	if base == "" {
		base = firecrawlAPIBase
	}
	return strings.TrimRight(base, "/") + path
}

func (f *Firecrawl) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + f.APIKey}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
