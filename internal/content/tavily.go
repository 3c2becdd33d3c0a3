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

var tavilyAPIBase = "https://api.tavily.com"

// Tavily searches through the Tavily API. Pages are scraped with Fetcher,
// or a PageFetcher over Client when Fetcher is nil, since Tavily's search
// endpoint returns extracted content only.
type Tavily struct {
	APIKey       string
	BaseURL      string
	Client       *http.Client
	SnippetLimit int

	// Depth is Tavily's search_depth parameter: basic or advanced.
	Depth string

	Fetcher *PageFetcher
	Log     *zap.Logger
}

// Name returns the backend identifier.
func (t *Tavily) Name() string { return string(types.ContentTavily) }

type tavilyRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []json.RawMessage `json:"results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Search posts query to Tavily and returns the extracted content of each hit.
func (t *Tavily) Search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	log := backendLog(t.Log, t.Name())
	log.Debug("searching", zap.String("query", query), zap.Int("limit", resultLimit(limit)))
	sources, err := t.search(ctx, query, resultLimit(limit))
	logSearch(log, sources, err)
	return sources, err
}

func (t *Tavily) search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	depth := t.Depth
	if depth == "" {
		depth = types.DefaultTavilyDepth
	}

	body := tavilyRequest{Query: query, APIKey: t.APIKey, SearchDepth: depth, MaxResults: limit}

	base := t.BaseURL
	if base == "" {
		base = tavilyAPIBase
	}

	var resp tavilyResponse
	if err := httputil.PostJSON(ctx, t.Client, "Tavily", strings.TrimRight(base, "/")+"/search", nil, body, &resp); err != nil {
		return nil, err
	}

	sources := make([]types.RawSource, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var r tavilyResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("parsing Tavily result: %w", err)
		}
		sources = append(sources, types.RawSource{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: truncate(r.Content, t.SnippetLimit),
			Raw:     raw,
		})
		if len(sources) >= limit {
			break
		}
	}
	return sources, nil
}

// Scrape fetches the page directly.
func (t *Tavily) Scrape(ctx context.Context, url string) ScrapeResult {
	return pageFetcher(t.Fetcher, t.Client, "", t.Log).Scrape(ctx, url)
}
