// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
	"github.com/pdiddy/advance-agent/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,url,authors,externalIds,year,publicationDate"

// SemanticScholar queries the Semantic Scholar paper index. The API key is
// optional and raises the rate limit. Each source's snippet is the abstract.
type SemanticScholar struct {
	APIKey       string
	BaseURL      string
	Client       *http.Client
	UserAgent    string
	SnippetLimit int

	// Since, when positive, restricts results to papers from that year on.
	Since int

	Fetcher *PageFetcher
	Log     *zap.Logger
}

// Name returns the backend identifier.
func (s *SemanticScholar) Name() string { return string(types.ContentSemanticScholar) }

// ScholarlyIndex marks Semantic Scholar as a paper index.
func (s *SemanticScholar) ScholarlyIndex() bool { return true }

// Search queries Semantic Scholar's relevance search.
func (s *SemanticScholar) Search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	log := backendLog(s.Log, s.Name())
	log.Debug("searching", zap.String("query", query), zap.Int("limit", resultLimit(limit)))
	sources, err := s.search(ctx, query, limit)
	logSearch(log, sources, err)
	return sources, err
}

func (s *SemanticScholar) search(ctx context.Context, query string, limit int) ([]types.RawSource, error) {
	q := strings.Join(strings.Fields(strings.ReplaceAll(query, "->", " ")), " ")
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {q},
		"limit":  {fmt.Sprintf("%d", resultLimit(limit))},
		"fields": {semanticFields},
	}
	if s.Since > 0 {
		params.Set("year", fmt.Sprintf("%d-", s.Since))
	}

	base := s.BaseURL
	if base == "" {
		base = semanticAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	var sr semanticResponse
	if err := httputil.Do(s.Client, "Semantic Scholar", req, &sr); err != nil {
		return nil, err
	}

	sources := make([]types.RawSource, 0, len(sr.Data))
	for _, raw := range sr.Data {
		var paper semanticPaper
		if err := json.Unmarshal(raw, &paper); err != nil {
			return nil, fmt.Errorf("parsing Semantic Scholar result: %w", err)
		}
		sources = append(sources, types.RawSource{
			Title:   paper.Title,
			URL:     paper.link(),
			Snippet: truncate(collapseSpace(paper.Abstract), s.SnippetLimit),
			Raw:     raw,
		})
	}
	return sources, nil
}

// Scrape fetches the page directly.
func (s *SemanticScholar) Scrape(ctx context.Context, url string) ScrapeResult {
	return pageFetcher(s.Fetcher, s.Client, s.UserAgent, s.Log).Scrape(ctx, url)
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int               `json:"total"`
	Data  []json.RawMessage `json:"data"`
}

type semanticPaper struct {
	PaperID     string `json:"paperId"`
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	URL         string `json:"url"`
	ExternalIDs struct {
		DOI   string `json:"DOI"`
		ArXiv string `json:"ArXiv"`
	} `json:"externalIds"`
}

// link prefers the arXiv abstract page, then the DOI resolver, then the
// Semantic Scholar page.
func (p semanticPaper) link() string {
	switch {
	case p.ExternalIDs.ArXiv != "":
		return "https://arxiv.org/abs/" + p.ExternalIDs.ArXiv
	case p.ExternalIDs.DOI != "":
		return "https://doi.org/" + p.ExternalIDs.DOI
	case p.URL != "":
		return p.URL
	default:
		return "https://www.semanticscholar.org/paper/" + p.PaperID
	}
}
