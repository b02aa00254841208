package worker

import (
	"context"
	"log/slog"
	"time"

	"eksi-rss/internal/fetch"
	"eksi-rss/internal/subs"
)

// Refresher periodically re-resolves every stored subscription so feed
// requests usually land on a warm cache. Resolution already absorbs remote
// failures, so a bad cycle only logs.
type Refresher struct {
	Store       *subs.Store
	Coordinator *fetch.Coordinator
	Interval    time.Duration
}

func (w *Refresher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 15 * time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// initial run
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Refresher) runOnce(ctx context.Context) {
	list := w.Store.List()
	if len(list) == 0 {
		return
	}
	warm := 0
	for _, res := range w.Coordinator.ResolveAll(ctx, list) {
		if res.Err != nil {
			slog.Warn("refresher: subscription degraded", "key", res.Sub.Key(), "error", res.Err)
			continue
		}
		warm++
	}
	slog.Info("refresher: cycle complete", "subscriptions", len(list), "warm", warm)
}
