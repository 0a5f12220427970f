package api

import (
	"context"
	"net/http"
	"time"

	"meditation-platform/internal/infra/auth"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/infra/metrics"
	red "meditation-platform/internal/infra/redis"

	"github.com/rs/zerolog"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated user id, or "" outside RequireUser.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// RequireUser rejects requests without a valid session cookie.
func RequireUser(sessions *auth.SessionManager) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.ParseFromRequest(r)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID())
			ctx = logging.WithUserID(ctx, claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimiter is satisfied by redis.RateLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LimitPerUser allows limit requests per user per minute for action.
// A limiter backend failure lets the request through.
func LimitPerUser(limiter RateLimiter, action string, limit int, logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserID(r.Context())
			ok, err := limiter.Allow(r.Context(), red.UserActionKey(uid, action), limit, time.Minute)
			if err != nil {
				logging.With(r.Context(), logger).Warn().Err(err).Str("action", action).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.IncRateLimited(action)
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, errorBody{Message: "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
