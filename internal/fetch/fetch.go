// Package fetch retrieves candidate pages with a single bounded GET.
package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

const (
	// userAgent is a realistic browser identity; bare Go clients get
	// blocked by the most trivial bot filters.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// maxBodyBytes caps how much of a page we read. Contact details live
	// near the top of the document; endless streams must not hang the run.
	maxBodyBytes = 2 * 1024 * 1024

	DefaultTimeout = 10 * time.Second
)

// Client fetches pages. One attempt per URL, no retries.
type Client struct {
	http *http.Client
}

// New returns a Client with the given per-request timeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Page GETs pageURL and returns the body as a string. Failures come back
// as *domain.FetchError classified by kind.
func (c *Client) Page(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Kind: domain.FetchConnection, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-NZ,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: pageURL, Kind: domain.FetchStatus, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.FetchError{URL: pageURL, Kind: classify(err), Err: err}
	}
	return string(body), nil
}

func classify(err error) domain.FetchKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FetchTimeout
	}
	return domain.FetchConnection
}
