// Package cache stores per-subscription extraction snapshots with a TTL.
//
// Correctness here is about staleness, not capacity: the key space is bounded
// by the subscription count, so there is no eviction beyond TTL. A stale
// snapshot is still retrievable through GetStale so the fetch coordinator can
// serve it when the remote is unreachable.
package cache

import (
	"context"
	"time"

	"eksi-rss/internal/model"
)

// Snapshot is an immutable extraction result for one subscription key.
type Snapshot struct {
	Key       string        `json:"key"`
	Entries   []model.Entry `json:"entries"`
	FetchedAt time.Time     `json:"fetched_at"`
	TTL       time.Duration `json:"ttl"`
}

// Fresh reports whether the snapshot is within its TTL at time now.
func (s Snapshot) Fresh(now time.Time) bool {
	return now.Sub(s.FetchedAt) < s.TTL
}

// Cache is the snapshot store. Get observes the TTL; GetStale does not.
// Concurrent Puts on the same key resolve to last write wins.
type Cache interface {
	Get(ctx context.Context, key string) (Snapshot, bool, error)
	GetStale(ctx context.Context, key string) (Snapshot, bool, error)
	Put(ctx context.Context, key string, entries []model.Entry, ttl time.Duration) error
}
