// Package dedup prevents the same website from being recorded twice.
//
// The Gate tracks normalized URLs admitted during the current run. An
// optional Store (Redis set bizsearch:seen:v1) extends that memory
// across runs, so re-running a query doesn't re-append rows; the Gate
// works purely in-memory when no Store is given. Admit only marks
// in-memory; callers Confirm after the row is durably written, so a
// failed write leaves the URL eligible for the next run.
package dedup

import (
	"context"
	"log"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	seenKey = "bizsearch:seen:v1"
	seenTTL = 30 * 24 * time.Hour
)

// Redis wraps redis.Client with seen-set helpers.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis seen-set client. addr example: "localhost:6379".
func NewRedis(addr, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{rdb: rdb}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *Redis) Close() error { return r.rdb.Close() }

// Seen reports whether url was admitted in a previous run.
func (r *Redis) Seen(ctx context.Context, url string) (bool, error) {
	return r.rdb.SIsMember(ctx, seenKey, url).Result()
}

// Mark records url as admitted and refreshes the set's TTL.
func (r *Redis) Mark(ctx context.Context, url string) error {
	if err := r.rdb.SAdd(ctx, seenKey, url).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, seenKey, seenTTL).Err()
}

// Store remembers admitted URLs across runs. *Redis implements it.
type Store interface {
	Seen(ctx context.Context, url string) (bool, error)
	Mark(ctx context.Context, url string) error
}

// Gate is the deduplication gate. Admit is check-and-mark under a mutex,
// so the single-writer invariant holds even when callers run concurrently.
type Gate struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	store Store // optional; nil means in-memory only
}

// NewGate returns a Gate. store may be nil.
func NewGate(store Store) *Gate {
	return &Gate{
		seen:  make(map[string]struct{}),
		store: store,
	}
}

// Preload seeds the gate with URLs already recorded (e.g. read from the
// spreadsheet at startup).
func (g *Gate) Preload(urls []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, u := range urls {
		if u != "" {
			g.seen[u] = struct{}{}
		}
	}
}

// Admit reports whether url is new. On the first call for a given url it
// returns true and marks it seen in memory; every later call returns
// false. The cross-run Store is consulted but not written to here.
func (g *Gate) Admit(ctx context.Context, url string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[url]; ok {
		return false
	}
	if g.store != nil {
		if seen, err := g.store.Seen(ctx, url); err == nil && seen {
			g.seen[url] = struct{}{}
			return false
		}
	}

	g.seen[url] = struct{}{}
	return true
}

// Confirm records url in the cross-run Store. Call it only after the
// record has been durably written; an unconfirmed URL stays forgotten
// after this run, so a transient write failure doesn't lose the lead.
func (g *Gate) Confirm(ctx context.Context, url string) {
	if g.store == nil {
		return
	}
	if err := g.store.Mark(ctx, url); err != nil {
		log.Printf("WARN: dedup: redis mark %s: %v", url, err)
	}
}

// Len returns how many URLs the gate currently tracks.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
