package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Irina-Kostina/business-search-tool/internal/dedup"
	"github.com/Irina-Kostina/business-search-tool/internal/fetch"
	"github.com/Irina-Kostina/business-search-tool/internal/filter"
	"github.com/Irina-Kostina/business-search-tool/internal/pipeline"
	"github.com/Irina-Kostina/business-search-tool/internal/search"
	"github.com/Irina-Kostina/business-search-tool/internal/sheet"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	headless := flag.Bool("headless-search", envBool("HEADLESS_SEARCH"), "also try a headless-browser Google search when the HTTP engines fail")
	workers := flag.Int("workers", envInt("WORKERS", 1), "concurrent page fetches (1 = sequential)")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║        Business Search — NZ contact harvester            ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")

	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		log.Println("SPREADSHEET_ID is not set. Add it to .env.")
		os.Exit(1)
	}

	query, count := queryAndCount(flag.Args())
	if query == "" {
		fmt.Println("No query given. Exiting.")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Google Sheet ──────────────────────────────────────────────────────
	credsFile := getEnv("GOOGLE_CREDENTIALS_FILE", "google-credentials.json")
	sheetClient, err := sheet.New(ctx, credsFile, spreadsheetID)
	if err != nil {
		log.Printf("Error connecting to Google Sheet: %v", err)
		os.Exit(1)
	}
	if err := sheetClient.EnsureHeader(ctx); err != nil {
		log.Printf("Error preparing Google Sheet: %v", err)
		os.Exit(1)
	}

	// ── Redis (optional) ──────────────────────────────────────────────────
	var seenStore dedup.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		rc := dedup.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), redisDB)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Printf("WARN: Redis not available (%v) — dedup is in-memory only", err)
		} else {
			seenStore = rc
			fmt.Printf("  Redis : %s\n", addr)
			defer rc.Close()
		}
		cancel()
	}

	// ── Dedup gate, seeded from existing rows ─────────────────────────────
	gate := dedup.NewGate(seenStore)
	if urls, err := sheetClient.ExistingURLs(ctx); err != nil {
		log.Printf("WARN: could not read existing rows (%v) — duplicates against prior runs possible", err)
	} else {
		gate.Preload(normalizeAll(urls))
		fmt.Printf("  Seen  : %d URLs already recorded\n", gate.Len())
	}

	// ── Engines ───────────────────────────────────────────────────────────
	engines := []search.Searcher{
		search.NewDuckDuckGo(),
		search.NewBing(),
	}
	if *headless {
		engines = append(engines, search.NewHeadless(true))
	}

	bias := getEnv("SEARCH_COUNTRY_BIAS", "site:.nz")
	fullQuery := search.Query(query, bias)

	fmt.Printf("  Query : %s\n", fullQuery)
	fmt.Printf("  Count : %d\n\n", count)

	// ── Run ───────────────────────────────────────────────────────────────
	stats, err := pipeline.Run(ctx, fullQuery, count, pipeline.Config{
		Engines:          engines,
		Fetcher:          fetch.New(fetch.DefaultTimeout),
		Writer:           sheetClient,
		Gate:             gate,
		Workers:          *workers,
		MaxWriteFailures: envInt("MAX_WRITE_FAILURES", 3),
		Delay:            500 * time.Millisecond,
	})

	fmt.Println("\n─── Summary ────────────────────────────────────────────────")
	fmt.Printf("  Found     : %d\n", stats.Found)
	fmt.Printf("  Filtered  : %d\n", stats.Filtered)
	fmt.Printf("  Fetched   : %d\n", stats.Fetched)
	fmt.Printf("  Extracted : %d\n", stats.Extracted)
	fmt.Printf("  Duplicates: %d\n", stats.Duplicates)
	fmt.Printf("  Skipped   : %d\n", stats.Skipped)
	fmt.Printf("  Written   : %d\n", stats.Written)

	if err != nil {
		log.Printf("FATAL: %v", err)
		os.Exit(1)
	}
	fmt.Println("\nDone! Check your Google Sheet for new leads.")
}

// queryAndCount takes the query and result count from the positional
// arguments, prompting interactively for whatever is missing.
func queryAndCount(args []string) (string, int) {
	reader := bufio.NewReader(os.Stdin)

	query := ""
	if len(args) >= 1 {
		query = strings.TrimSpace(args[0])
	}
	if query == "" {
		fmt.Print("Enter search query (e.g. 'nail salon Auckland'): ")
		line, _ := reader.ReadString('\n')
		query = strings.TrimSpace(line)
	}

	count := envInt("RESULT_COUNT", 0)
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			count = n
		}
	}
	if count <= 0 {
		fmt.Print("How many websites to process (e.g. 5 or 10): ")
		line, _ := reader.ReadString('\n')
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && n > 0 {
			count = n
		} else {
			count = 5
		}
	}
	return query, count
}

func normalizeAll(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if n, err := filter.Normalize(u); err == nil && n != "" {
			out = append(out, n)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
