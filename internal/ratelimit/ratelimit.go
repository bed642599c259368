package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter allows a fixed number of requests per client within a window
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count int
	start time.Time
}

// New creates a limiter allowing max requests per period for each key.
// Call Stop to release the cleanup goroutine.
func New(max int, period time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow records a request for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.period {
		l.clients[key] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.max
}

// Remaining returns how many requests key may still make in its current window
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || l.now().Sub(w.start) >= l.period {
		return l.max
	}
	return max(l.max-w.count, 0)
}

// ResetAt returns when the current window of key ends, or zero time if it has none
func (l *Limiter) ResetAt(key string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok {
		return time.Time{}
	}
	return w.start.Add(l.period)
}

// Stop ends the cleanup goroutine
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// cleanup removes expired windows periodically
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.clients {
				if now.Sub(w.start) >= l.period {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware returns an Echo middleware that rate limits requests by client IP
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(l.max))

			if !l.Allow(key) {
				retryAfter := int(l.ResetAt(key).Sub(l.now()).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}

				header.Set("X-RateLimit-Remaining", "0")
				header.Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "too many requests",
					"retry_after": retryAfter,
				})
			}

			header.Set("X-RateLimit-Remaining", strconv.Itoa(l.Remaining(key)))
			return next(c)
		}
	}
}
