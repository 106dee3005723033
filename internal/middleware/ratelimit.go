package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// window is a fixed rate limit window for one client address.
type window struct {
	count int
	start time.Time
}

// RateLimiter counts requests per client IP in fixed windows. It guards the
// login and registration posts, which each cost a backend call.
type RateLimiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewRateLimiter allows max requests per IP in every period.
func NewRateLimiter(max int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow records one request from ip and reports whether it is within the
// limit. Expired windows are pruned as a side effect.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[ip]
	if !ok || now.Sub(w.start) > l.period {
		l.pruneLocked(now)
		l.windows[ip] = &window{count: 1, start: now}
		return true
	}
	w.count++
	return w.count <= l.max
}

func (l *RateLimiter) pruneLocked(now time.Time) {
	for ip, w := range l.windows {
		if now.Sub(w.start) > 2*l.period {
			delete(l.windows, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Слишком много попыток. Попробуйте позже.")
			}
			return next(c)
		}
	}
}

// RateLimit is shorthand for NewRateLimiter(max, period).Middleware().
func RateLimit(max int, period time.Duration) echo.MiddlewareFunc {
	return NewRateLimiter(max, period).Middleware()
}
