package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bibliohome/bibliohome-server/internal/http/response"
	"github.com/bibliohome/bibliohome-server/internal/metrics"
	"github.com/bibliohome/bibliohome-server/internal/ratelimit"
)

const loginPath = "/api/user/login"

// RateLimiter is the keyed limiter used for both request classes.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a rate limiter allowing ratePerInterval requests
// per interval per client, e.g. 20 per minute is 0.333 rps.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// rateLimit throttles by client IP. Login attempts draw from their own,
// much smaller bucket.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter, class := s.apiLimiter, "api"
		if r.Method == http.MethodPost && r.URL.Path == loginPath {
			limiter, class = s.loginLimiter, "login"
		}

		key := getClientIP(r)
		if !limiter.Allow(key) {
			metrics.RecordRateLimitHit(class)
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"class", class,
				"path", r.URL.Path,
				"request_id", getRequestID(r.Context()),
			)
			response.TooManyRequests(w, retryAfter(limiter), s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// retryAfter is the Retry-After hint in whole seconds for one token.
func retryAfter(limiter *RateLimiter) string {
	rps := limiter.Rate()
	if rps <= 0 {
		return ""
	}
	return strconv.Itoa(int(math.Ceil(1 / rps)))
}

// getClientIP returns the client address without its port. middleware.RealIP
// has already replaced RemoteAddr from X-Forwarded-For or X-Real-IP.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
