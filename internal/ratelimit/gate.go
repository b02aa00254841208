// Package ratelimit gates outbound requests to the remote site.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces a minimum interval between any two outbound requests,
// process-wide. Callers block in Wait until their slot; the underlying
// limiter serializes concurrent waiters so no two can share an interval.
type Gate struct {
	lim *rate.Limiter
}

func NewGate(minInterval time.Duration) *Gate {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &Gate{lim: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the minimum interval since the last granted request has
// elapsed, or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.lim.Wait(ctx)
}
