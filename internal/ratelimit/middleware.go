package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"
)

// ClientKey identifies the caller by the host part of the connection's
// remote address. Proxy headers are ignored; they are client controlled.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns an HTTP middleware that enforces rate limits using the
// provided Limiter, keyed by ClientKey.
//
// Rate-limit headers are always set on the response:
//
//	X-RateLimit-Limit     - maximum requests allowed in the window
//	X-RateLimit-Remaining - tokens remaining in the current window
//	X-RateLimit-Reset     - Unix timestamp when the bucket is fully replenished
//
// When the limit is exceeded the middleware responds with HTTP 429 and a JSON
// error body.
func Middleware(limiter *Limiter, onReject ...func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)

			limit, remaining, resetAt := limiter.Status(key)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))

			if !limiter.Allow(key) {
				for _, fn := range onReject {
					fn()
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter(limiter)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]string{
						"code":    "rate_limited",
						"message": "Rate limit exceeded. Try again later.",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter is the whole seconds until one token refills, at least 1.
func retryAfter(l *Limiter) int {
	return max(int(math.Ceil(l.window.Seconds()/float64(max(l.rate, 1)))), 1)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func RunSweeper(ctx context.Context, l *Limiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
