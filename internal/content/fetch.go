// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/advance-agent/internal/httputil"
)

// maxPageBytes bounds how much of a page is read before text extraction.
const maxPageBytes = 2 << 20

// defaultPageTextLimit bounds the extracted text, in runes.
const defaultPageTextLimit = 32 * 1024

// PageFetcher scrapes a page over plain HTTP and extracts its visible text.
type PageFetcher struct {
	Client    *http.Client
	UserAgent string

	// TextLimit bounds the returned text in runes (default 32768).
	TextLimit int

	Log *zap.Logger
}

// pageFetcher returns f, or a PageFetcher over client when f is nil.
func pageFetcher(f *PageFetcher, client *http.Client, userAgent string, log *zap.Logger) *PageFetcher {
	if f != nil {
		return f
	}
	return &PageFetcher{Client: client, UserAgent: userAgent, Log: log}
}

// Scrape downloads url and returns the text of its body with scripts,
// styles and navigation removed.
func (p *PageFetcher) Scrape(ctx context.Context, url string) ScrapeResult {
	log := backendLog(p.Log, "page")
	text, err := p.fetch(ctx, url)
	if err != nil {
		return logScrape(log, scrapeFailure(url, err))
	}
	return logScrape(log, scrapeResult(url, text))
}

func (p *PageFetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httputil.StatusError{Service: "page", StatusCode: resp.StatusCode}
	}

	body := io.LimitReader(resp.Body, maxPageBytes)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", url, err)
		}
		return p.limit(collapseSpace(string(data))), nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parsing HTML from %s: %w", url, err)
	}
	doc.Find("script, style, noscript, nav, header, footer, svg").Remove()

	return p.limit(collapseSpace(doc.Find("body").Text())), nil
}

func (p *PageFetcher) limit(text string) string {
	limit := p.TextLimit
	if limit <= 0 {
		limit = defaultPageTextLimit
	}
	return truncate(text, limit)
}
