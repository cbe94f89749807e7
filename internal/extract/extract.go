// Package extract pulls public contact details out of a fetched page.
package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

// maxTextScan limits how much page text the regexes run over. Contact
// details cluster in headers and footers, both inside this window.
const maxTextScan = 8000

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// phoneRe tolerates NZ formatting: optional +64, optional area code
	// in parentheses, digit groups joined by spaces, dots or dashes.
	phoneRe = regexp.MustCompile(`[+(]?\d[\d\s().\-]{6,14}\d`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// placeholderMarkers flag addresses that are template samples, not real
// contacts.
var placeholderMarkers = []string{
	"example.com",
	"example.org",
	"yourname",
	"your-name",
	"youremail",
	"your-email",
	"sentry.io",
	"wixpress.com",
}

// assetSuffixes catch filenames the email regex mistakes for addresses
// (e.g. "logo@2x.png").
var assetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}

// socialPlatforms maps a platform name to the host suffix its profile
// links carry.
var socialPlatforms = map[string]string{
	"instagram": "instagram.com",
	"facebook":  "facebook.com",
	"linkedin":  "linkedin.com",
}

// Contacts builds a BusinessRecord for pageURL from its HTML. It never
// fails: unparseable markup yields a record with the URL only.
func Contacts(pageURL, html string) domain.BusinessRecord {
	rec := domain.BusinessRecord{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		rec.Name = hostName(pageURL)
		return rec
	}

	rec.Name = businessName(doc, pageURL)

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		rec.Description = cleanText(desc)
	}

	text := doc.Text()
	if len(text) > maxTextScan {
		text = text[:maxTextScan]
	}

	rec.Emails = emails(doc, text)
	rec.Phones = phones(doc, text)
	rec.Socials = socialLinks(doc)

	return rec
}

// businessName guesses the business name: page title first, then the host
// with common prefixes stripped.
func businessName(doc *goquery.Document, pageURL string) string {
	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return hostName(pageURL)
}

func hostName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func emails(doc *goquery.Document, text string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(raw string) {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || seen[email] || !emailRe.MatchString(email) {
			return
		}
		for _, marker := range placeholderMarkers {
			if strings.Contains(email, marker) {
				return
			}
		}
		for _, suffix := range assetSuffixes {
			if strings.HasSuffix(email, suffix) {
				return
			}
		}
		seen[email] = true
		out = append(out, email)
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i != -1 {
			addr = addr[:i]
		}
		add(addr)
	})

	for _, m := range emailRe.FindAllString(text, -1) {
		add(m)
	}

	return out
}

func phones(doc *goquery.Document, text string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(raw string) {
		canonical := CanonicalPhone(raw)
		if canonical == "" || seen[canonical] {
			return
		}
		seen[canonical] = true
		out = append(out, canonical)
	}

	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add(strings.TrimPrefix(href, "tel:"))
	})

	for _, m := range phoneRe.FindAllString(text, -1) {
		add(m)
	}

	return out
}

// CanonicalPhone reduces a phone match to digits, rewriting the +64
// country code to the domestic 0 prefix so "+64 9 123 4567",
// "09-123-4567" and "(09) 123 4567" all compare equal. Returns "" when
// the digits don't look like an NZ number.
func CanonicalPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "64") && len(digits) >= 10 {
		digits = "0" + digits[2:]
	}
	if len(digits) < 7 || len(digits) > 11 {
		return ""
	}
	// Anything beyond a bare 7-digit local number starts with 0, which
	// also keeps year ranges like "2010-2024" out.
	if len(digits) >= 8 && digits[0] != '0' {
		return ""
	}
	return digits
}

func socialLinks(doc *goquery.Document) map[string]string {
	var socials map[string]string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || u.Hostname() == "" {
			return
		}
		host := strings.ToLower(u.Hostname())

		for platform, domainSuffix := range socialPlatforms {
			if host != domainSuffix && !strings.HasSuffix(host, "."+domainSuffix) {
				continue
			}
			if socials == nil {
				socials = make(map[string]string)
			}
			if _, ok := socials[platform]; !ok {
				socials[platform] = href
			}
		}
	})

	return socials
}

// SocialPlatforms returns the known platform names in sorted order.
func SocialPlatforms() []string {
	names := make([]string, 0, len(socialPlatforms))
	for name := range socialPlatforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
