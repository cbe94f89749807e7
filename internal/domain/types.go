// Package domain holds the types shared between pipeline stages.
package domain

// BusinessRecord is the contact-information unit produced per website.
// URL is always present and normalized; everything else is best-effort
// and may be empty.
type BusinessRecord struct {
	Name        string
	URL         string
	Description string
	Emails      []string
	Phones      []string
	// Socials maps a platform name ("instagram", "facebook", ...) to the
	// first profile URL seen on the page.
	Socials map[string]string
}

// RunStats counts what happened during one pipeline run.
type RunStats struct {
	Found      int // raw search results
	Filtered   int // dropped by the link filter
	Fetched    int // pages retrieved successfully
	Extracted  int // records produced
	Written    int // rows appended to the sheet
	Skipped    int // candidates skipped on fetch/write failure
	Duplicates int // records rejected by the dedup gate
}
