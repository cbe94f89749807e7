package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Bing is the secondary engine, used when DuckDuckGo yields nothing.
type Bing struct {
	baseURL string
}

func NewBing() *Bing {
	return &Bing{baseURL: "https://www.bing.com/search"}
}

func (b *Bing) Name() string { return "Bing" }

func (b *Bing) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	searchURL := b.baseURL + "?q=" + url.QueryEscape(query) + "&count=20"
	doc, err := resultPage(ctx, b.Name(), searchURL)
	if err != nil {
		return nil, err
	}
	return b.parse(doc, limit), nil
}

func (b *Bing) parse(doc *goquery.Document, limit int) []string {
	var urls []string
	doc.Find("#b_results .b_algo h2 a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || !strings.HasPrefix(href, "http") {
			return true
		}
		urls = appendDistinct(urls, href, limit)
		return len(urls) < limit
	})
	return urls
}
