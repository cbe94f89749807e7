// Package search scrapes web search result pages for candidate business
// websites. Result pages are a fragile contract: every engine here parses
// a DOM shape that can change without notice, which is why engines are
// tried in order until one produces links.
package search

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

// Searcher is one search engine. Search returns up to limit distinct
// result URLs for the query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Query appends the country-bias term (e.g. "site:.nz") to the search
// term. An empty bias leaves the term untouched.
func Query(term, bias string) string {
	term = strings.TrimSpace(term)
	bias = strings.TrimSpace(bias)
	if bias == "" {
		return term
	}
	return term + " " + bias
}

// Results runs the engines in order and returns the first non-empty
// result set. Engine failures are logged and skipped; when every engine
// fails or comes back empty, the result is simply nil.
func Results(ctx context.Context, query string, limit int, engines ...Searcher) []string {
	for _, e := range engines {
		urls, err := e.Search(ctx, query, limit)
		if err != nil {
			log.Printf("WARN: search: %s: %v", e.Name(), err)
			continue
		}
		if len(urls) > 0 {
			return urls
		}
	}
	return nil
}

// resultPage GETs a search result URL with browser-like headers and
// parses it. Any failure maps to domain.ErrSearchUnavailable.
func resultPage(ctx context.Context, engine, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", engine, err, domain.ErrSearchUnavailable)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-NZ,en;q=0.9")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", engine, err, domain.ErrSearchUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %w", engine, resp.StatusCode, domain.ErrSearchUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %v: %w", engine, err, domain.ErrSearchUnavailable)
	}
	return doc, nil
}

// appendDistinct adds link to urls unless already present or over limit.
func appendDistinct(urls []string, link string, limit int) []string {
	if len(urls) >= limit {
		return urls
	}
	for _, u := range urls {
		if u == link {
			return urls
		}
	}
	return append(urls, link)
}
