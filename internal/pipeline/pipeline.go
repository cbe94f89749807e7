// Package pipeline runs the fetch-extract-dedup-append flow for one query.
//
// Phases:
//  1. Search     – engines tried in order, degrade to zero results
//  2. Filter     – blocklist + well-formedness, order preserved
//  3. Harvest    – per-candidate fetch + extract (bounded workers)
//  4. Record     – dedup gate + sheet append, serialized
//
// Per-candidate failures are logged and skipped; only a streak of
// consecutive sheet-write failures aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Irina-Kostina/business-search-tool/internal/dedup"
	"github.com/Irina-Kostina/business-search-tool/internal/domain"
	"github.com/Irina-Kostina/business-search-tool/internal/extract"
	"github.com/Irina-Kostina/business-search-tool/internal/filter"
	"github.com/Irina-Kostina/business-search-tool/internal/search"
)

// Fetcher retrieves one page's HTML.
type Fetcher interface {
	Page(ctx context.Context, url string) (string, error)
}

// Writer appends one accepted record to the durable store.
type Writer interface {
	Append(ctx context.Context, rec domain.BusinessRecord) error
}

// Config holds injectable dependencies and tuning for one run.
type Config struct {
	Engines []search.Searcher
	Fetcher Fetcher
	Writer  Writer
	Gate    *dedup.Gate

	// Workers bounds concurrent fetches. 1 (the default) keeps the run
	// strictly sequential.
	Workers int

	// MaxWriteFailures is how many consecutive failed appends are
	// tolerated before the run aborts. Defaults to 3.
	MaxWriteFailures int

	// Delay is the pause between sequential fetches, out of politeness
	// to the sites. Ignored when Workers > 1.
	Delay time.Duration
}

// Run executes the pipeline for query, requesting up to limit candidates.
// The returned error is non-nil only for a fatal persistence failure.
func Run(ctx context.Context, query string, limit int, cfg Config) (domain.RunStats, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxWriteFailures <= 0 {
		cfg.MaxWriteFailures = 3
	}

	var stats domain.RunStats

	// ── Phase 1: Search ─────────────────────────────────────────────────
	results := search.Results(ctx, query, limit, cfg.Engines...)
	stats.Found = len(results)
	if len(results) == 0 {
		return stats, nil
	}

	// ── Phase 2: Filter ─────────────────────────────────────────────────
	candidates, discarded := filter.Links(results)
	stats.Filtered = discarded

	// ── Phase 3+4: Harvest and record ───────────────────────────────────
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu         sync.Mutex // guards stats, gate+writer, failure streak
		wg         sync.WaitGroup
		sem        = make(chan struct{}, cfg.Workers)
		writeFails int
		fatal      error
		sequential = cfg.Workers == 1
	)

	for i, candidate := range candidates {
		if runCtx.Err() != nil {
			break
		}
		if sequential && i > 0 && cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}

		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if runCtx.Err() != nil {
				return
			}

			mu.Lock()
			fmt.Printf("[%d/%d] %s\n", idx+1, len(candidates), rawURL)
			mu.Unlock()

			normalized, err := filter.Normalize(rawURL)
			if err != nil || normalized == "" {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return
			}

			html, err := cfg.Fetcher.Page(runCtx, rawURL)
			if err != nil {
				mu.Lock()
				stats.Skipped++
				log.Printf("WARN: %v", err)
				mu.Unlock()
				return
			}

			rec := extract.Contacts(normalized, html)

			mu.Lock()
			defer mu.Unlock()
			stats.Fetched++
			stats.Extracted++
			printFindings(os.Stdout, rec)

			if !cfg.Gate.Admit(runCtx, rec.URL) {
				stats.Duplicates++
				fmt.Println("    ↷ Already recorded, skipping.")
				return
			}

			if err := cfg.Writer.Append(runCtx, rec); err != nil {
				stats.Skipped++
				writeFails++
				log.Printf("WARN: %v", err)
				if writeFails >= cfg.MaxWriteFailures && fatal == nil {
					fatal = fmt.Errorf("aborting after %d consecutive write failures: %w", writeFails, err)
					cancel()
				}
				return
			}
			writeFails = 0
			cfg.Gate.Confirm(runCtx, rec.URL)
			stats.Written++
			fmt.Println("    → Saved to sheet.")
		}(i, candidate)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return stats, fatal
}

func printFindings(w io.Writer, rec domain.BusinessRecord) {
	fmt.Fprintf(w, "    Name   : %s\n", orNone(rec.Name))
	if rec.Description != "" {
		fmt.Fprintf(w, "    About  : %s\n", rec.Description)
	}
	fmt.Fprintf(w, "    Emails : %s\n", orNone(strings.Join(rec.Emails, ", ")))
	fmt.Fprintf(w, "    Phones : %s\n", orNone(strings.Join(rec.Phones, ", ")))
	for _, platform := range extract.SocialPlatforms() {
		if link, ok := rec.Socials[platform]; ok {
			fmt.Fprintf(w, "    %-7s: %s\n", capitalize(platform), link)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
