package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

// Headless drives a real browser through Google search. It is the
// last-resort engine for when the plain HTTP engines are bot-walled;
// enable it with HEADLESS_SEARCH=1.
type Headless struct {
	Headless bool
}

func NewHeadless(headless bool) *Headless {
	return &Headless{Headless: headless}
}

func (h *Headless) Name() string { return "Google (headless)" }

func (h *Headless) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	}
	if h.Headless {
		opts = append(opts, chromedp.Headless)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query) + "&hl=en"

	var body string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(searchURL),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("body", &body),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", h.Name(), err, domain.ErrSearchUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %v: %w", h.Name(), err, domain.ErrSearchUnavailable)
	}
	return parseGoogle(doc, limit), nil
}

// parseGoogle collects outbound result links, skipping Google's own
// navigation and cached copies.
func parseGoogle(doc *goquery.Document, limit int) []string {
	var urls []string
	doc.Find("a[href^='http']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		host := strings.ToLower(u.Hostname())
		if host == "" || strings.HasSuffix(host, "google.com") || strings.HasSuffix(host, "googleusercontent.com") || strings.HasSuffix(host, "gstatic.com") {
			return true
		}
		// Result links carry an h3 heading; bare anchors are chrome.
		if s.Find("h3").Length() == 0 && s.Closest("div.g").Length() == 0 {
			return true
		}
		urls = appendDistinct(urls, href, limit)
		return len(urls) < limit
	})
	return urls
}
