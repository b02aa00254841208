package cache

import (
	"context"
	"encoding/json"
	"time"

	"eksi-rss/internal/model"

	"github.com/redis/go-redis/v9"
)

// retention is how long snapshots are kept in Redis past their TTL so stale
// entries remain available for degraded serving.
const retention = 7 * 24 * time.Hour

// Redis is the Redis-backed cache backend. Snapshots are stored as JSON under
// prefixed keys; freshness is judged by the stored fetch timestamp, not by
// Redis expiry, which only bounds retention.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func snapshotKey(key string) string {
	return "feed:snapshot:" + key
}

func (r *Redis) Get(ctx context.Context, key string) (Snapshot, bool, error) {
	s, ok, err := r.GetStale(ctx, key)
	if err != nil || !ok {
		return Snapshot{}, false, err
	}
	if !s.Fresh(time.Now()) {
		return Snapshot{}, false, nil
	}
	return s, true, nil
}

func (r *Redis) GetStale(ctx context.Context, key string) (Snapshot, bool, error) {
	b, err := r.rdb.Get(ctx, snapshotKey(key)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, false, err
	}
	return s, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, entries []model.Entry, ttl time.Duration) error {
	s := Snapshot{
		Key:       key,
		Entries:   entries,
		FetchedAt: time.Now(),
		TTL:       ttl,
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, snapshotKey(key), b, retention).Err()
}
