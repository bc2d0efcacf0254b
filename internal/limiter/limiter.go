package limiter

import (
	"sync"
	"time"
)

type clientWindow struct {
	currCount       int       // requests in the current window
	prevCount       int       // requests in the previous window
	currWindowStart time.Time // start of the current window
}

// RateLimiter is a sliding-window counter keyed by client (usually IP).
// The previous window's count is weighted by how much of it still overlaps
// the sliding interval.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     float64
	window    time.Duration
	now       func() time.Time
	lastPrune time.Time
}

func New(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   float64(limit),
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	currWindowStart := now.Truncate(rl.window)
	status, exists := rl.clients[key]
	if !exists {
		rl.clients[key] = &clientWindow{currCount: 1, currWindowStart: currWindowStart}
		return rl.limit >= 1
	}

	if currWindowStart.After(status.currWindowStart) {
		if currWindowStart.Sub(status.currWindowStart) == rl.window {
			status.prevCount = status.currCount
		} else {
			status.prevCount = 0
		}
		status.currCount = 0
		status.currWindowStart = currWindowStart
	}

	prevWeight := float64(rl.window-now.Sub(currWindowStart)) / float64(rl.window)
	estimated := float64(status.prevCount)*prevWeight + float64(status.currCount)
	if estimated >= rl.limit {
		return false
	}

	status.currCount++
	return true
}

// pruneLocked drops clients idle for two full windows. Runs at most once per window.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(rl.lastPrune) < rl.window {
		return
	}
	rl.lastPrune = now
	cutoff := now.Truncate(rl.window).Add(-rl.window)
	for key, status := range rl.clients {
		if status.currWindowStart.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Len reports how many clients are currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
