package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter allows limit requests per window for each caller. Callers are
// keyed by acting user once authenticated, by client IP otherwise.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	return rateLimiter(limit, window, time.Now)
}

func rateLimiter(limit int, window time.Duration, now func() time.Time) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep time.Time
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			t := now()
			key := "ip:" + c.RealIP()
			if actor, ok := ActorFrom(c); ok {
				key = "user:" + actor.UserID
			}

			mu.Lock()
			if t.Sub(lastSweep) > window {
				for k, b := range buckets {
					if t.Sub(b.start) > window {
						delete(buckets, k)
					}
				}
				lastSweep = t
			}

			b, ok := buckets[key]
			if !ok || t.Sub(b.start) > window {
				b = &bucket{start: t}
				buckets[key] = b
			}

			if b.count >= limit {
				retryAfter := int(window.Seconds() - t.Sub(b.start).Seconds())
				mu.Unlock()
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			b.count++
			mu.Unlock()

			return next(c)
		}
	}
}
