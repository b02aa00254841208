// Package fetch decides between cache and remote for each subscription and
// absorbs remote failures into best-effort results.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eksi-rss/internal/cache"
	"eksi-rss/internal/eksi"
	"eksi-rss/internal/extract"
	"eksi-rss/internal/model"
	"eksi-rss/internal/ratelimit"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrFetchDegraded reports that the remote was unreachable and a stale
	// snapshot was served instead.
	ErrFetchDegraded = errors.New("remote fetch degraded, serving stale snapshot")
	// ErrFetchFailed reports that the remote was unreachable and no snapshot
	// exists; the result is empty.
	ErrFetchFailed = errors.New("remote fetch failed, no snapshot")
)

// fullPage is the entry count under which pagination stops early.
const fullPage = 10

// PageFetcher is the remote fetch collaborator.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (body, finalURL string, err error)
	ResourceURL(sub model.Subscription) string
	BaseURL() string
}

// Coordinator resolves subscriptions to entries through the cache, the rate
// gate, and the extractor.
type Coordinator struct {
	Fetcher  PageFetcher
	Cache    cache.Cache
	Gate     *ratelimit.Gate
	TTL      time.Duration
	MaxPages int
	Timeout  time.Duration

	now func() time.Time
}

func NewCoordinator(f PageFetcher, c cache.Cache, g *ratelimit.Gate, ttl time.Duration, maxPages int, timeout time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if maxPages <= 0 {
		maxPages = 3
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Coordinator{
		Fetcher:  f,
		Cache:    c,
		Gate:     g,
		TTL:      ttl,
		MaxPages: maxPages,
		Timeout:  timeout,
		now:      time.Now,
	}
}

// Resolve returns the current entries for a subscription. Cache hits within
// the TTL never touch the remote. On remote failure the last snapshot is
// served even if expired (ErrFetchDegraded); with no snapshot the result is
// empty (ErrFetchFailed). Both are advisory: callers log and assemble what
// they got.
func (c *Coordinator) Resolve(ctx context.Context, sub model.Subscription) ([]model.Entry, error) {
	key := sub.Key()
	if snap, ok, err := c.Cache.Get(ctx, key); err == nil && ok {
		return snap.Entries, nil
	} else if err != nil {
		slog.Error("fetch coordinator: cache read failed", "key", key, "error", err)
	}

	// Topic subscriptions read a single day-view page. Search terms first
	// resolve the ?q= redirect to the target topic, then paginate its day
	// view up to the configured bound.
	base := sub.URL
	if base == "" {
		base = c.Fetcher.ResourceURL(sub)
	}
	pages := 1
	if sub.Kind == model.KindSearchTerm {
		_, finalURL, err := c.fetchOne(ctx, base)
		if err != nil {
			return c.degrade(ctx, key, err)
		}
		base = finalURL
		pages = c.MaxPages
	}

	day := c.now()
	var all []model.Entry
	seen := make(map[string]struct{})
	nextOrdinal := 0
	degraded := false
	for page := 1; page <= pages; page++ {
		body, _, err := c.fetchOne(ctx, eksi.PageURL(base, day, page))
		if err != nil {
			if len(all) > 0 {
				slog.Warn("fetch coordinator: pagination cut short", "key", key, "page", page, "error", err)
				break
			}
			return c.degrade(ctx, key, err)
		}
		pageEntries, err := extract.Entries(body, sub, c.Fetcher.BaseURL(), nextOrdinal)
		if err != nil {
			degraded = true
			slog.Warn("fetch coordinator: parse degraded", "key", key, "page", page, "error", err)
		}
		nextOrdinal += len(pageEntries)
		// An entry can straddle a page boundary between two sequential
		// fetches; a permalink appears at most once per result.
		for _, e := range pageEntries {
			if _, dup := seen[e.Permalink]; dup {
				continue
			}
			seen[e.Permalink] = struct{}{}
			all = append(all, e)
		}
		if len(pageEntries) < fullPage {
			break
		}
	}

	// A degraded empty result must not overwrite a usable snapshot.
	if len(all) > 0 || !degraded {
		if err := c.Cache.Put(ctx, key, all, c.TTL); err != nil {
			slog.Error("fetch coordinator: cache write failed", "key", key, "error", err)
		}
	}
	if degraded {
		return all, extract.ErrParseDegraded
	}
	return all, nil
}

// Discover fetches a target once to learn its topic title and final URL.
// Used when a subscription is first added.
func (c *Coordinator) Discover(ctx context.Context, target string) (model.Subscription, error) {
	sub := model.ParseTarget(target)
	if sub.Kind == model.KindSearchTerm {
		return sub, nil
	}
	body, finalURL, err := c.fetchOne(ctx, c.Fetcher.ResourceURL(sub))
	if err != nil {
		return sub, err
	}
	info, err := extract.Topic(body)
	if err != nil {
		return sub, err
	}
	sub.Title = info.Title
	sub.URL = finalURL
	if sub.TopicID == "" {
		sub.TopicID = info.TopicID
	}
	return sub, nil
}

// Result pairs a subscription with its resolution outcome.
type Result struct {
	Sub     model.Subscription
	Entries []model.Entry
	Err     error
}

// ResolveAll resolves every subscription with bounded concurrency, preserving
// input order. One subscription failing never aborts the others; failures are
// recorded per result.
func (c *Coordinator) ResolveAll(ctx context.Context, subs []model.Subscription) []Result {
	results := make([]Result, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			entries, err := c.Resolve(gctx, sub)
			results[i] = Result{Sub: sub, Entries: entries, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// fetchOne applies the rate gate and the per-fetch timeout to one request.
func (c *Coordinator) fetchOne(ctx context.Context, pageURL string) (body, finalURL string, err error) {
	if err := c.Gate.Wait(ctx); err != nil {
		return "", "", err
	}
	fctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	return c.Fetcher.FetchPage(fctx, pageURL)
}

func (c *Coordinator) degrade(ctx context.Context, key string, cause error) ([]model.Entry, error) {
	if snap, ok, err := c.Cache.GetStale(ctx, key); err == nil && ok {
		slog.Warn("fetch coordinator: serving stale snapshot", "key", key, "age", time.Since(snap.FetchedAt), "cause", cause)
		return snap.Entries, ErrFetchDegraded
	}
	slog.Error("fetch coordinator: fetch failed with no snapshot", "key", key, "cause", cause)
	return nil, ErrFetchFailed
}
