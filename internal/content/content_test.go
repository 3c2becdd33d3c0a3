// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/advance-agent/pkg/types"
)

// --- New ---

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.SearchConfig
		wantName string
		wantErr  error
	}{
		{"firecrawl with key", types.SearchConfig{Provider: types.ContentFirecrawl, APIKey: "fc"}, "firecrawl", nil},
		{"default is firecrawl", types.SearchConfig{APIKey: "fc"}, "firecrawl", nil},
		{"tavily with key", types.SearchConfig{Provider: types.ContentTavily, APIKey: "tv"}, "tavily", nil},
		{"arxiv without key", types.SearchConfig{Provider: types.ContentArxiv}, "arxiv", nil},
		{"semantic scholar without key", types.SearchConfig{Provider: types.ContentSemanticScholar}, "semantic_scholar", nil},
		{"firecrawl without key", types.SearchConfig{Provider: types.ContentFirecrawl, APIKey: "  "}, "", types.ErrProviderUnavailable},
		{"tavily without key", types.SearchConfig{Provider: types.ContentTavily}, "", types.ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, http.DefaultClient, nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewPassesTavilyDepth(t *testing.T) {
	p, err := New(types.SearchConfig{Provider: types.ContentTavily, APIKey: "tv", Depth: "advanced"}, http.DefaultClient, nil)
	require.NoError(t, err)
	tv, ok := p.(*Tavily)
	require.True(t, ok)
	assert.Equal(t, "advanced", tv.Depth)
	assert.NotNil(t, tv.Fetcher)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(types.SearchConfig{Provider: "bing"}, http.DefaultClient, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown content provider "bing"`)
}

// --- truncate ---

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "héé", truncate("hééllo", 3), "counts runes, not bytes")
	assert.Len(t, []rune(truncate(strings.Repeat("x", 1500), 0)), defaultSnippetLimit)
}

// --- Firecrawl ---

func TestFirecrawlSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req firecrawlSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "raft consensus", req.Query)
		assert.Equal(t, 10, req.Limit)
		assert.Equal(t, []string{"markdown"}, req.ScrapeOptions.Formats)

		w.Write([]byte(`{"success":true,"data":[
			{"url":"http://arxiv.org/abs/123","title":"fallback","markdown":"# Raft\nFaster leader election","metadata":{"title":"Raft Revisited"}},
			{"url":"http://blog.example.com/x","title":"Blog Post","description":"only a description"}
		]}`))
	}))
	defer ts.Close()

	fc := &Firecrawl{APIKey: "fc-key", BaseURL: ts.URL, Client: ts.Client(), SnippetLimit: 10}
	got, err := fc.Search(context.Background(), "raft consensus", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Raft Revisited", got[0].Title, "metadata title wins")
	assert.Equal(t, "http://arxiv.org/abs/123", got[0].URL)
	assert.Equal(t, "# Raft\nFas", got[0].Snippet, "snippet truncated to limit")
	assert.Contains(t, string(got[0].Raw), "Faster leader election")

	assert.Equal(t, "Blog Post", got[1].Title)
	assert.Equal(t, "only a des", got[1].Snippet)
}

func TestFirecrawlSearchCappedAtLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":true,"data":[
			{"url":"http://a","title":"A"},
			{"url":"http://b","title":"B"},
			{"url":"http://c","title":"C"}
		]}`))
	}))
	defer ts.Close()

	fc := &Firecrawl{APIKey: "fc-key", BaseURL: ts.URL, Client: ts.Client()}
	got, err := fc.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "http://b", got[1].URL)
}

func TestFirecrawlSearchLogs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"url":"http://a","title":"A","markdown":"alpha"}]}`))
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	p, err := New(types.SearchConfig{Provider: types.ContentFirecrawl, APIKey: "fc-key", HTTPConfig: types.HTTPConfig{BaseURL: ts.URL}},
		ts.Client(), zap.New(core).Named("content"))
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "raft consensus", 5)
	require.NoError(t, err)

	start := logs.FilterMessage("searching").All()
	require.Len(t, start, 1)
	assert.Equal(t, "content", start[0].LoggerName)
	assert.Equal(t, "raft consensus", start[0].ContextMap()["query"])

	done := logs.FilterMessage("search returned").All()
	require.Len(t, done, 1)
	assert.Equal(t, "firecrawl", done[0].ContextMap()["provider"])
	assert.Equal(t, int64(1), done[0].ContextMap()["count"])
}

func TestFirecrawlScrapeLogsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	fc := &Firecrawl{APIKey: "fc-key", BaseURL: ts.URL, Client: ts.Client(), Log: zap.New(core)}
	res := fc.Scrape(context.Background(), "http://example.com")
	assert.Equal(t, ScrapeError, res.Status)

	failures := logs.FilterMessage("scrape failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, "http://example.com", failures[0].ContextMap()["url"])
}

func TestFirecrawlSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"success":false,"error":"Insufficient credits"}`))
	}))
	defer ts.Close()

	fc := &Firecrawl{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	got, err := fc.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "HTTP 402")
}

func TestFirecrawlSearchUnsuccessful(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success":false,"error":"query too long"}`))
	}))
	defer ts.Close()

	fc := &Firecrawl{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	_, err := fc.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query too long")
}

func TestFirecrawlScrape(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus ScrapeStatus
		wantText   string
	}{
		{"success", http.StatusOK, `{"success":true,"data":{"markdown":"# Paper"}}`, ScrapeSuccess, "# Paper"},
		{"no content", http.StatusOK, `{"success":true,"data":{"markdown":"  "}}`, ScrapeNoContent, ""},
		{"error", http.StatusInternalServerError, `boom`, ScrapeError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/scrape", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			fc := &Firecrawl{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
			got := fc.Scrape(context.Background(), "http://example.com/p")
			assert.Equal(t, "http://example.com/p", got.URL)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantText, got.Text)
			if tt.wantStatus == ScrapeError {
				assert.NotEmpty(t, got.Error)
			}
		})
	}
}

// --- Tavily ---

func TestTavilySearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tv-key", req.APIKey)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 2, req.MaxResults)

		w.Write([]byte(`{"results":[
			{"title":"One","url":"http://a","content":"alpha"},
			{"title":"Two","url":"http://b","content":"beta"},
			{"title":"Three","url":"http://c","content":"gamma"}
		]}`))
	}))
	defer ts.Close()

	tv := &Tavily{APIKey: "tv-key", BaseURL: ts.URL, Client: ts.Client()}
	got, err := tv.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, got, 2, "results capped at limit")
	assert.Equal(t, types.RawSource{Title: "One", URL: "http://a", Snippet: "alpha", Raw: got[0].Raw}, got[0])
}

// --- arXiv ---

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2501.00001v1</id>
    <title>Fast Transformers
      for Edge Devices</title>
    <summary>  We present a faster
      attention kernel.  </summary>
    <published>2025-01-01T00:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.RawQuery
		assert.Contains(t, q, "search_query=all:Computer+AND+all:Science+AND+all:Transformers")
		assert.Contains(t, q, "max_results=3")
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		w.Write([]byte(arxivFeedXML))
	}))
	defer ts.Close()

	ax := &Arxiv{BaseURL: ts.URL, Client: ts.Client(), UserAgent: "test/0.1"}
	got, err := ax.Search(context.Background(), "Computer Science -> Transformers", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fast Transformers for Edge Devices", got[0].Title)
	assert.Equal(t, "http://arxiv.org/abs/2501.00001v1", got[0].URL)
	assert.Equal(t, "We present a faster attention kernel.", got[0].Snippet)
	assert.Contains(t, string(got[0].Raw), "Ada Lovelace")
}

func TestArxivSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ax := &Arxiv{BaseURL: ts.URL, Client: ts.Client()}
	_, err := ax.Search(context.Background(), "quantum", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestBuildArxivQuery(t *testing.T) {
	assert.Equal(t, "all:Biology+AND+all:Genomics", buildArxivQuery("Biology -> Genomics"))
	assert.Equal(t, "all:self-supervised", buildArxivQuery("(self-supervised)"))
	assert.Equal(t, "", buildArxivQuery(" -> "))
}

// --- Semantic Scholar ---

func TestSemanticScholarSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Biology Genomics", q.Get("query"))
		assert.Equal(t, "4", q.Get("limit"))
		assert.Equal(t, semanticFields, q.Get("fields"))
		assert.Equal(t, "2024-", q.Get("year"))
		assert.Equal(t, "s2-key", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"total": 4, "data": [
			{"paperId": "p1", "title": "Arxiv paper", "abstract": "Long  read\nassembly.", "externalIds": {"ArXiv": "2501.00001", "DOI": "10.1/a"}},
			{"paperId": "p2", "title": "DOI paper", "externalIds": {"DOI": "10.1/b"}},
			{"paperId": "p3", "title": "URL paper", "url": "https://example.org/p3", "externalIds": {}},
			{"paperId": "p4", "title": "Bare paper"}
		]}`))
	}))
	defer ts.Close()

	s2 := &SemanticScholar{APIKey: "s2-key", BaseURL: ts.URL, Client: ts.Client(), Since: 2024}
	got, err := s2.Search(context.Background(), "Biology -> Genomics", 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Arxiv paper", got[0].Title)
	assert.Equal(t, "https://arxiv.org/abs/2501.00001", got[0].URL)
	assert.Equal(t, "Long read assembly.", got[0].Snippet)
	assert.Contains(t, string(got[0].Raw), `"paperId": "p1"`)
	assert.Equal(t, "https://doi.org/10.1/b", got[1].URL)
	assert.Equal(t, "https://example.org/p3", got[2].URL)
	assert.Equal(t, "https://www.semanticscholar.org/paper/p4", got[3].URL)
}

func TestSemanticScholarSearchWithoutKeyOrYear(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-api-key"))
		assert.False(t, r.URL.Query().Has("year"))
		w.Write([]byte(`{"total": 0, "data": []}`))
	}))
	defer ts.Close()

	s2 := &SemanticScholar{BaseURL: ts.URL, Client: ts.Client()}
	got, err := s2.Search(context.Background(), "quantum", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSemanticScholarSearchErrors(t *testing.T) {
	s2 := &SemanticScholar{}
	_, err := s2.Search(context.Background(), " -> ", 3)
	assert.ErrorContains(t, err, "empty Semantic Scholar query")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s2 = &SemanticScholar{BaseURL: ts.URL, Client: ts.Client()}
	_, err = s2.Search(context.Background(), "quantum", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestScholarlyIndex(t *testing.T) {
	var p Provider = &SemanticScholar{}
	idx, ok := p.(ScholarlyIndex)
	require.True(t, ok)
	assert.True(t, idx.ScholarlyIndex())

	p = &Arxiv{}
	_, ok = p.(ScholarlyIndex)
	assert.True(t, ok)

	p = &Firecrawl{}
	_, ok = p.(ScholarlyIndex)
	assert.False(t, ok, "web search providers take the boosted query")
}

func TestScrapeWithoutFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "scraper/1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("page text"))
	}))
	defer ts.Close()

	providers := []Provider{
		&Arxiv{Client: ts.Client(), UserAgent: "scraper/1"},
		&SemanticScholar{Client: ts.Client(), UserAgent: "scraper/1"},
	}
	for _, p := range providers {
		got := p.Scrape(context.Background(), ts.URL)
		assert.Equal(t, ScrapeSuccess, got.Status, p.Name())
		assert.Equal(t, "page text", got.Text, p.Name())
	}
}

func TestTavilyScrapeWithoutFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("page text"))
	}))
	defer ts.Close()

	tv := &Tavily{Client: ts.Client()}
	got := tv.Scrape(context.Background(), ts.URL)
	assert.Equal(t, ScrapeSuccess, got.Status)
	assert.Equal(t, "page text", got.Text)
}

// --- PageFetcher ---

func TestPageFetcherScrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><style>p{}</style></head><body>
				<nav>Home | About</nav>
				<h1>Raft</h1><script>var x = 1;</script>
				<p>Consensus   made
				simple.</p></body></html>`))
		case "/text":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("plain   text"))
		case "/empty":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><body><script>only()</script></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	pf := &PageFetcher{Client: ts.Client()}

	got := pf.Scrape(context.Background(), ts.URL+"/html")
	assert.Equal(t, ScrapeSuccess, got.Status)
	assert.Equal(t, "Raft Consensus made simple.", got.Text)

	got = pf.Scrape(context.Background(), ts.URL+"/text")
	assert.Equal(t, ScrapeSuccess, got.Status)
	assert.Equal(t, "plain text", got.Text)

	got = pf.Scrape(context.Background(), ts.URL+"/empty")
	assert.Equal(t, ScrapeNoContent, got.Status)

	got = pf.Scrape(context.Background(), ts.URL+"/missing")
	assert.Equal(t, ScrapeError, got.Status)
	assert.Contains(t, got.Error, "HTTP 404")
}

func TestPageFetcherTextLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("abcdefghij"))
	}))
	defer ts.Close()

	pf := &PageFetcher{Client: ts.Client(), TextLimit: 4}
	assert.Equal(t, "abcd", pf.Scrape(context.Background(), ts.URL).Text)
}
