package pipeline

import (
	"context"
	"math/rand"
	"time"

	"filmtrend/internal/config"
)

// Throttler inserts a randomized pause between provider requests so runs do
// not hammer the upstream APIs.
type Throttler struct {
	min time.Duration
	max time.Duration
	rng *rand.Rand
}

// NewThrottler builds a Throttler from the scraper delay bounds. A nil rng
// falls back to an unseeded source.
func NewThrottler(cfg config.Scraper, rng *rand.Rand) *Throttler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	minDelay := time.Duration(cfg.MinDelayMillis) * time.Millisecond
	maxDelay := time.Duration(cfg.MaxDelayMillis) * time.Millisecond
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Throttler{min: minDelay, max: maxDelay, rng: rng}
}

// Wait sleeps for a random duration within the configured bounds, returning
// early when the context is cancelled.
func (t *Throttler) Wait(ctx context.Context) error {
	delay := t.min
	if span := t.max - t.min; span > 0 {
		delay += time.Duration(t.rng.Int63n(int64(span) + 1))
	}
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
