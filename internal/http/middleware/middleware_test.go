package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/tubely-service/internal/ratelimit"
	"github.com/princekumarofficial/tubely-service/internal/utils/jwt"
)

const testSecret = "test-secret"

func echoUserID(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())
	w.Write([]byte(userID))
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := jwt.MakeJWT("user-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expired, _ := jwt.MakeJWT("user-1", testSecret, -time.Minute)
	foreign, _ := jwt.MakeJWT("user-1", "other-secret", time.Hour)

	handler := AuthMiddleware(testSecret)(http.HandlerFunc(echoUserID))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/videos/v1/upload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, rr.Code)
			}
			if tt.status == http.StatusOK && rr.Body.String() != "user-1" {
				t.Fatalf("Expected user ID in context, got %q", rr.Body.String())
			}
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	var seen string
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" || rr.Header().Get("X-Request-ID") != seen {
		t.Fatalf("Expected generated request ID in context and header, got %q / %q", seen, rr.Header().Get("X-Request-ID"))
	}
	if rr.Code != http.StatusTeapot {
		t.Fatalf("Expected status to pass through, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "abc" {
		t.Fatalf("Expected incoming request ID to be kept, got %q", seen)
	}
}

func withUser(userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rlc := NewRateLimitConfig().Limit(ActionVideoUpload, ratelimit.NewTokenBucket(client, 2, 2))
	handler := withUser("user-1", rlc.RateLimitMiddleware(ActionVideoUpload)(http.HandlerFunc(echoUserID)))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i+1, rr.Code)
		}
		if rr.Header().Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("Expected X-RateLimit-Limit 2, got %q", rr.Header().Get("X-RateLimit-Limit"))
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("Expected 0 remaining, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("connection refused")
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	rlc := NewRateLimitConfig().Limit(ActionThumbnailUpload, failingLimiter{})
	handler := withUser("user-1", rlc.RateLimitMiddleware(ActionThumbnailUpload)(http.HandlerFunc(echoUserID)))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected request to pass when the limiter errors, got %d", rr.Code)
	}
}

func TestRateLimitMiddleware_Unconfigured(t *testing.T) {
	rlc := NewRateLimitConfig()
	handler := rlc.RateLimitMiddleware(ActionVideoUpload)(http.HandlerFunc(echoUserID))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected pass-through, got %d", rr.Code)
	}
}
