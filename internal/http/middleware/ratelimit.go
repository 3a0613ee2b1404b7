package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/princekumarofficial/tubely-service/internal/apperr"
	"github.com/princekumarofficial/tubely-service/internal/ratelimit"
	"github.com/princekumarofficial/tubely-service/internal/utils/response"
)

// Upload actions limited per user.
const (
	ActionThumbnailUpload = "thumbnail_upload"
	ActionVideoUpload     = "video_upload"
)

// Limiter decides whether userID may perform action now.
type Limiter interface {
	Allow(ctx context.Context, userID, action string) (ratelimit.Decision, error)
}

type RateLimitConfig struct {
	limiters map[string]Limiter
}

func NewRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{limiters: make(map[string]Limiter)}
}

// Limit registers l for action.
func (rlc *RateLimitConfig) Limit(action string, l Limiter) *RateLimitConfig {
	rlc.limiters[action] = l
	return rlc
}

// RateLimitMiddleware enforces the limiter registered for action. It must run
// after AuthMiddleware. Actions without a limiter pass through. When the
// backing store fails the request is let through and the failure logged, so
// a Redis outage does not take uploads down with it.
func (rlc *RateLimitConfig) RateLimitMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limiter, exists := rlc.limiters[action]
		if !exists {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.WriteError(w, apperr.Unauthorized("user not authenticated", nil))
				return
			}

			d, err := limiter.Allow(r.Context(), userID, action)
			if err != nil {
				slog.Error("rate limit check failed",
					slog.String("action", action),
					slog.String("user_id", userID),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(d.Window.Seconds())))

			if !d.Allowed {
				response.WriteError(w, apperr.RateLimited("rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
