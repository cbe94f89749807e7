package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

// DuckDuckGo scrapes the HTML (no-JS) version of DuckDuckGo, which has
// the least bot-detection of the big engines.
type DuckDuckGo struct {
	baseURL string
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{baseURL: "https://html.duckduckgo.com/html/"}
}

func (d *DuckDuckGo) Name() string { return "DuckDuckGo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	searchURL := d.baseURL + "?q=" + url.QueryEscape(query)
	doc, err := resultPage(ctx, d.Name(), searchURL)
	if err != nil {
		return nil, err
	}

	urls := d.parse(doc, limit)
	if len(urls) == 0 && doc.Find(".result").Length() == 0 && doc.Find(".results").Length() == 0 {
		// No result markup at all: the page shape changed or we got a
		// bot wall, not a genuine zero-hit query.
		return nil, fmt.Errorf("%s: unrecognized result page: %w", d.Name(), domain.ErrSearchUnavailable)
	}
	return urls, nil
}

func (d *DuckDuckGo) parse(doc *goquery.Document, limit int) []string {
	var urls []string
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		if link := decodeRedirect(href); link != "" {
			urls = appendDistinct(urls, link, limit)
		}
		return len(urls) < limit
	})
	return urls
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=... result
// links into the target URL. Direct http(s) links pass through.
func decodeRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		target := u.Query().Get("uddg")
		if target == "" {
			return ""
		}
		href = target
		if u, err = url.Parse(href); err != nil {
			return ""
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
