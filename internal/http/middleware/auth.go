package middleware

import (
	"context"
	"net/http"

	"github.com/princekumarofficial/tubely-service/internal/apperr"
	"github.com/princekumarofficial/tubely-service/internal/utils/jwt"
	"github.com/princekumarofficial/tubely-service/internal/utils/response"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	RequestIDKey contextKey = "requestID"
)

// AuthMiddleware validates the bearer token and stores the caller's user ID
// in the request context. Requests without a valid token never reach next.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.GetBearerToken(r.Header)
			if err != nil {
				response.WriteError(w, apperr.Unauthorized("Couldn't find JWT", err))
				return
			}

			userID, err := jwt.ValidateJWT(token, jwtSecret)
			if err != nil {
				response.WriteError(w, apperr.Unauthorized("Couldn't validate JWT", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
