package infrastructure

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MessageRateLimiter keeps a token bucket per conversation key.
type MessageRateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	rate        rate.Limit
	burst       int
	idleTimeout time.Duration
	stop        chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMessageRateLimiter allows perSecond messages per key with the given burst.
// Idle buckets are evicted by a background sweep until Close is called.
func NewMessageRateLimiter(perSecond float64, burst int) *MessageRateLimiter {
	rl := &MessageRateLimiter{
		limiters:    make(map[string]*limiterEntry),
		rate:        rate.Limit(perSecond),
		burst:       burst,
		idleTimeout: 10 * time.Minute,
		stop:        make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

// Allow consumes one token for key if available.
func (rl *MessageRateLimiter) Allow(key string) bool {
	return rl.entry(key).limiter.Allow()
}

// WaitTime returns how long key has to wait for the next token.
func (rl *MessageRateLimiter) WaitTime(key string) time.Duration {
	r := rl.entry(key).limiter.Reserve()
	defer r.Cancel()
	if !r.OK() {
		return 0
	}
	return r.Delay()
}

func (rl *MessageRateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, key)
}

func (rl *MessageRateLimiter) entry(key string) *limiterEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e
}

func (rl *MessageRateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, e := range rl.limiters {
				if now.Sub(e.lastSeen) > rl.idleTimeout {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *MessageRateLimiter) Close() {
	close(rl.stop)
}
