// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API. It needs no API key; each source's
// snippet is the paper abstract.
type Arxiv struct {
	BaseURL      string
	Client       *http.Client
	UserAgent    string
	SnippetLimit int
	Fetcher      *PageFetcher
	Log          *zap.Logger
}

// Name returns the backend identifier.
func (a *Arxiv) Name() string { return string(types.ContentArxiv) }

// ScholarlyIndex marks arXiv as a paper index.
func (a *Arxiv) ScholarlyIndex() bool { return true }

// Search queries arXiv, newest submissions first.
func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	log := backendLog(a.Log, a.Name())
	log.Debug("searching", zap.String("query", query), zap.Int("limit", resultLimit(limit)))
	sources, err := a.search(ctx, query, limit)
	logSearch(log, sources, err)
	return sources, err
}

func (a *Arxiv) search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	base := a.BaseURL
	if base == "" {
		base = arxivAPIBase
	}
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		base, q, resultLimit(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if a.UserAgent != "" {
		req.Header.Set("User-Agent", a.UserAgent)
	}

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httputil.StatusError{Service: "arXiv", StatusCode: resp.StatusCode}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	sources := make([]types.RawSource, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("encoding arXiv entry: %w", err)
		}
		sources = append(sources, types.RawSource{
			Title:   collapseSpace(entry.Title),
			URL:     strings.TrimSpace(entry.ID),
			Snippet: truncate(collapseSpace(entry.Summary), a.SnippetLimit),
			Raw:     raw,
		})
	}
	return sources, nil
}

// Scrape fetches the page directly.
func (a *Arxiv) Scrape(ctx context.Context, url string) ScrapeResult {
	return pageFetcher(a.Fetcher, a.Client, a.UserAgent, a.Log).Scrape(ctx, url)
}

// buildArxivQuery turns free text into an all: term conjunction. The arrow
// of the wire query form and other punctuation are dropped.
func buildArxivQuery(text string) string {
	var terms []string
	for _, f := range strings.Fields(text) {
		f = strings.Trim(f, "->,;:()[]\"'")
		if f == "" {
			continue
		}
		terms = append(terms, "all:"+url.QueryEscape(f))
	}
	return strings.Join(terms, "+AND+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id" json:"id"`
	Title     string        `xml:"title" json:"title"`
	Summary   string        `xml:"summary" json:"summary"`
	Published string        `xml:"published" json:"published"`
	Authors   []arxivAuthor `xml:"author" json:"authors"`
}

type arxivAuthor struct {
	Name string `xml:"name" json:"name"`
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
