// Package filter drops search results that cannot be small-business
// websites and canonicalizes the URLs of the ones that survive.
package filter

import (
	"net/url"
	"strings"
)

// blockedDomains lists hosts that are never a business's own website:
// social networks, encyclopedias, video platforms, directories and
// news aggregators. Matching is by host suffix, so "m.facebook.com"
// is blocked by "facebook.com".
var blockedDomains = []string{
	"facebook.com",
	"instagram.com",
	"linkedin.com",
	"twitter.com",
	"x.com",
	"youtube.com",
	"tiktok.com",
	"pinterest.com",
	"reddit.com",
	"wikipedia.org",
	"yelp.com",
	"yellow.co.nz",
	"neighbourly.co.nz",
	"trademe.co.nz",
	"stuff.co.nz",
	"nzherald.co.nz",
	"rnz.co.nz",
}

// trackingParams are query parameters stripped during normalization.
// utm_* is handled by prefix.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"msclkid":  true,
	"ref":      true,
	"referrer": true,
}

// Links returns the well-formed, non-blocklisted subset of urls in input
// order, plus the number discarded. Malformed URLs are silently dropped.
func Links(urls []string) (kept []string, discarded int) {
	for _, raw := range urls {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			discarded++
			continue
		}
		if Blocked(u.Hostname()) {
			discarded++
			continue
		}
		kept = append(kept, raw)
	}
	return kept, discarded
}

// Blocked reports whether host falls under any blocklisted domain.
func Blocked(host string) bool {
	host = strings.ToLower(host)
	for _, d := range blockedDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Normalize canonicalizes a URL for deduplication: lowercase scheme and
// host, default ports and trailing slash stripped, tracking parameters and
// fragment removed.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			u.Host = host
		} else {
			u.Host = host + ":" + port
		}
	} else {
		u.Host = host
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		if trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
