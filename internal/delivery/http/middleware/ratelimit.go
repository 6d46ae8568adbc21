package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"conferenceregistration/internal/delivery/http/helpers"
	"conferenceregistration/internal/monitoring"
)

// HitCounter counts requests per key in fixed windows.
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows at most limit requests per client IP and route within window.
// Counter failures let the request through.
func RateLimit(counter HitCounter, limit int, window time.Duration, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if counter == nil || limit <= 0 {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			route := r.Pattern
			key := route + ":" + ClientIP(r)
			count, err := counter.Hit(r.Context(), key, window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "err", err)
				next(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			if count > int64(limit) {
				monitoring.RateLimited(route)
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				helpers.WriteJSONError(w, r, http.StatusTooManyRequests, helpers.ErrCodeRateLimited,
					"too many requests, please try again later")
				return
			}
			next(w, r)
		}
	}
}

// ClientIP returns the first X-Forwarded-For hop when present, else the remote address host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
