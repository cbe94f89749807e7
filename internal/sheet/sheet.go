// Package sheet appends accepted records to a Google Sheet.
//
// The spreadsheet is the run's only durable store. Layout (first
// worksheet): Name | URL | Emails | Phones | Social Links, one row per
// business, append-only. The header row is written once when the sheet
// is empty.
package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
	"github.com/Irina-Kostina/business-search-tool/internal/extract"
)

// Header is the fixed column order.
var Header = []string{"Name", "URL", "Emails", "Phones", "Social Links"}

const readRange = "A1:E"

// Client wraps an authenticated Sheets service for one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// New authenticates with the service-account key file and returns a
// Client bound to spreadsheetID.
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheet: auth: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// EnsureHeader writes the header row if the sheet has no data yet.
func (c *Client) EnsureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, "A1:E1").Context(ctx).Do()
	if err != nil {
		return &domain.PersistenceError{Op: "read header", Err: err}
	}
	if len(resp.Values) > 0 {
		return nil
	}

	row := make([]any, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	return c.append(ctx, "write header", row)
}

// ExistingURLs reads the URL column of every recorded row, for seeding
// the dedup gate at startup.
func (c *Client) ExistingURLs(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, "B2:B").Context(ctx).Do()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read urls", Err: err}
	}

	var urls []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if u, ok := row[0].(string); ok && u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// Append serializes rec to one row and appends it.
func (c *Client) Append(ctx context.Context, rec domain.BusinessRecord) error {
	return c.append(ctx, "append row", Row(rec))
}

func (c *Client) append(ctx context.Context, op string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, readRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// Row serializes a record in Header order. Emails and phones are joined
// with ", "; social links render as "platform: url" in platform order.
func Row(rec domain.BusinessRecord) []any {
	return []any{
		rec.Name,
		rec.URL,
		strings.Join(rec.Emails, ", "),
		strings.Join(rec.Phones, ", "),
		joinSocials(rec.Socials),
	}
}

func joinSocials(socials map[string]string) string {
	if len(socials) == 0 {
		return ""
	}
	var parts []string
	for _, platform := range extract.SocialPlatforms() {
		if link, ok := socials[platform]; ok {
			parts = append(parts, platform+": "+link)
		}
	}
	return strings.Join(parts, ", ")
}
