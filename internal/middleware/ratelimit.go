package middleware

import (
	"context"
	"errors"
	"net"
	"time"

	"connectrpc.com/connect"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a client calls a limited procedure too often.
var ErrRateLimited = errors.New("too many requests, try again later")

// limiterIdle is how long an unused per-client limiter is kept.
const limiterIdle = 10 * time.Minute

// RateLimit returns an interceptor that allows each client address perMinute
// calls to the listed procedures, with a burst of the same size. Other
// procedures pass through. A non-positive perMinute disables limiting.
func RateLimit(perMinute int, procedures ...string) connect.UnaryInterceptorFunc {
	limited := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		limited[p] = true
	}
	limiters := cache.New(limiterIdle, 2*limiterIdle)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if perMinute <= 0 || !limited[req.Spec().Procedure] {
				return next(ctx, req)
			}

			key := clientKey(req.Peer().Addr) + " " + req.Spec().Procedure
			var limiter *rate.Limiter
			if v, ok := limiters.Get(key); ok {
				limiter = v.(*rate.Limiter)
			} else {
				limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
				if err := limiters.Add(key, limiter, cache.DefaultExpiration); err != nil {
					// Another request created it first.
					if v, ok := limiters.Get(key); ok {
						limiter = v.(*rate.Limiter)
					}
				}
			}
			// Sliding idle expiry.
			limiters.SetDefault(key, limiter)

			if !limiter.Allow() {
				return nil, connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
			}
			return next(ctx, req)
		}
	}
}

// clientKey strips the port from a peer address.
func clientKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
