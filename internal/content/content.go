// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content searches and scrapes the web for research material.
// Each backend (Firecrawl, Tavily, arXiv, Semantic Scholar) implements
// Provider.
package content

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/pkg/types"
)

const (
	defaultMaxResults   = 10
	defaultSnippetLimit = 1000
)

// Provider searches a content service and scrapes individual pages.
type Provider interface {
	Name() string

	// Search returns up to limit sources for query, in the service's order.
	Search(ctx context.Context, query string, limit int) ([]types.RawSource, error)

	// Scrape fetches the text of a single page. Failures are reported in
	// the result's Status rather than as an error.
	Scrape(ctx context.Context, url string) ScrapeResult
}

// ScholarlyIndex is implemented by providers that search a paper index
// rather than the web. Stage 1 sends them the bare query, since venue and
// recency terms only help web search.
type ScholarlyIndex interface {
	ScholarlyIndex() bool
}

// ScrapeStatus is the outcome of a Scrape call.
type ScrapeStatus string

const (
	ScrapeSuccess   ScrapeStatus = "success"
	ScrapeNoContent ScrapeStatus = "no_content"
	ScrapeError     ScrapeStatus = "error"
)

// ScrapeResult holds the text of a scraped page.
type ScrapeResult struct {
	URL    string       `json:"url" yaml:"url"`
	Text   string       `json:"text" yaml:"text"`
	Status ScrapeStatus `json:"status" yaml:"status"`
	Error  string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// scrapeResult classifies text into a success or no_content result.
func scrapeResult(url, text string) ScrapeResult {
	if strings.TrimSpace(text) == "" {
		return ScrapeResult{URL: url, Status: ScrapeNoContent}
	}
	return ScrapeResult{URL: url, Text: text, Status: ScrapeSuccess}
}

func scrapeFailure(url string, err error) ScrapeResult {
	return ScrapeResult{URL: url, Status: ScrapeError, Error: err.Error()}
}

// New builds the provider selected by cfg.Provider. Backends that need an
// API key fail with types.ErrProviderUnavailable when none is configured.
// A nil log disables logging.
func New(cfg types.SearchConfig, client *http.Client, log *zap.Logger) (Provider, error) {
	if cfg.Provider.RequiresKey() && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s requires an API key", types.ErrProviderUnavailable, cfg.Provider)
	}
	if log == nil {
		log = zap.NewNop()
	}

	fetcher := &PageFetcher{Client: client, UserAgent: cfg.UserAgent, Log: log}

	switch cfg.Provider {
	case types.ContentFirecrawl, "":
		return &Firecrawl{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Client:       client,
			SnippetLimit: cfg.SnippetLimit,
			Log:          log,
		}, nil
	case types.ContentTavily:
		return &Tavily{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Client:       client,
			SnippetLimit: cfg.SnippetLimit,
			Depth:        cfg.Depth,
			Fetcher:      fetcher,
			Log:          log,
		}, nil
	case types.ContentArxiv:
		return &Arxiv{
			BaseURL:      cfg.BaseURL,
			Client:       client,
			UserAgent:    cfg.UserAgent,
			SnippetLimit: cfg.SnippetLimit,
			Fetcher:      fetcher,
			Log:          log,
		}, nil
	case types.ContentSemanticScholar:
		return &SemanticScholar{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Client:       client,
			UserAgent:    cfg.UserAgent,
			SnippetLimit: cfg.SnippetLimit,
			Since:        cfg.Since,
			Fetcher:      fetcher,
			Log:          log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown content provider %q: use firecrawl, tavily, arxiv, or semantic_scholar", cfg.Provider)
	}
}

// truncate returns at most limit runes of s. A non-positive limit selects
// defaultSnippetLimit.
func truncate(s string, limit int) string {
	if limit <= 0 {
		limit = defaultSnippetLimit
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func resultLimit(limit int) int {
	if limit <= 0 {
		return defaultMaxResults
	}
	return limit
}

// backendLog tags l with the backend name. A nil l yields a no-op logger.
func backendLog(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String("provider", name))
}

// logSearch records the outcome of a backend search.
func logSearch(log *zap.Logger, sources []types.RawSource, err error) {
	if err != nil {
		log.Error("search failed", zap.Error(err))
		return
	}
	log.Info("search returned", zap.Int("count", len(sources)))
}

// logScrape records the outcome of a scrape and returns res unchanged.
func logScrape(log *zap.Logger, res ScrapeResult) ScrapeResult {
	switch res.Status {
	case ScrapeSuccess:
		log.Info("scraped page", zap.String("url", res.URL), zap.Int("length", len(res.Text)))
	case ScrapeNoContent:
		log.Warn("page has no content", zap.String("url", res.URL))
	default:
		log.Error("scrape failed", zap.String("url", res.URL), zap.String("error", res.Error))
	}
	return res
}
