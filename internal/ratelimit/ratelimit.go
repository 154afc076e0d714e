// Package ratelimit provides a keyed token bucket limiter for inbound requests.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed gives every key its own token bucket. Buckets idle longer than the
// eviction window are dropped by Sweep.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// New creates a limiter allowing rps requests per second per key with the
// given burst. A non-positive rps disables limiting.
func New(rps float64, burst int) *Keyed {
	if burst <= 0 {
		burst = 1
	}
	return &Keyed{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// Enabled reports whether requests can be rejected at all.
func (k *Keyed) Enabled() bool { return k.limit > 0 }

// Allow reports whether a request for key may proceed now.
func (k *Keyed) Allow(key string) bool {
	if !k.Enabled() {
		return true
	}
	now := k.now()

	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	k.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle longer than the eviction window and returns how
// many were removed.
func (k *Keyed) Sweep() int {
	cutoff := k.now().Add(-k.idle)

	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for key, e := range k.entries {
		if e.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// RunSweeper calls Sweep every interval until stop is closed.
func (k *Keyed) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			k.Sweep()
		}
	}
}
