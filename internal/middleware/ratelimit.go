package middleware

import (
	"net/http"
	"sync"
	"time"
)

type callerState struct {
	count    int
	lastSeen time.Time
}

// RateLimiter caps how many requests a caller may send per window.
// Generation routes sit behind it so a front end retrying in a loop
// cannot drain the provider quota; saves and reads stay unmetered.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string]*callerState
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*callerState),
		limit:   limit,
		window:  window,
	}
	go rl.evictLoop()
	return rl
}

// allow counts one request for the caller and reports whether it fits
// inside the current window. A caller silent for a full window starts
// a fresh count.
func (rl *RateLimiter) allow(caller string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	st, ok := rl.callers[caller]
	if !ok || now.Sub(st.lastSeen) > rl.window {
		rl.callers[caller] = &callerState{count: 1, lastSeen: now}
		return true
	}

	st.count++
	st.lastSeen = now
	return st.count <= rl.limit
}

// evictLoop drops callers that have been silent for a full window.
func (rl *RateLimiter) evictLoop() {
	for {
		time.Sleep(rl.window)
		rl.mu.Lock()
		for caller, st := range rl.callers {
			if time.Since(st.lastSeen) > rl.window {
				delete(rl.callers, caller)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
