package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
		DB:   0,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		t.Fatalf("Failed to connect to test Redis: %v", err)
	}

	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})

	return redisClient, mr
}

func TestTokenBucket_Allow(t *testing.T) {
	redisClient, _ := setupTestRedis(t)

	bucket := NewTokenBucket(redisClient, 3, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := bucket.Allow(ctx, "test_user", "video_upload")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if d.Remaining != int64(2-i) {
			t.Fatalf("Expected %d remaining, got %d", 2-i, d.Remaining)
		}
		if d.Limit != 3 {
			t.Fatalf("Expected limit 3, got %d", d.Limit)
		}
	}

	d, err := bucket.Allow(ctx, "test_user", "video_upload")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Allowed {
		t.Fatal("Expected request to be denied after limit reached")
	}
	if d.Remaining != 0 {
		t.Fatalf("Expected 0 remaining tokens, got %d", d.Remaining)
	}
}

func TestTokenBucket_SeparateBuckets(t *testing.T) {
	redisClient, _ := setupTestRedis(t)

	bucket := NewTokenBucket(redisClient, 1, 1)
	ctx := context.Background()

	if d, _ := bucket.Allow(ctx, "user1", "video_upload"); !d.Allowed {
		t.Fatal("Expected first request for user1 to be allowed")
	}
	if d, _ := bucket.Allow(ctx, "user1", "video_upload"); d.Allowed {
		t.Fatal("Expected second request for user1 to be denied")
	}

	// a different user and a different action each have their own bucket
	if d, _ := bucket.Allow(ctx, "user2", "video_upload"); !d.Allowed {
		t.Fatal("Expected user2 to be unaffected")
	}
	if d, _ := bucket.Allow(ctx, "user1", "thumbnail_upload"); !d.Allowed {
		t.Fatal("Expected another action to be unaffected")
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	redisClient, _ := setupTestRedis(t)

	bucket := NewTokenBucket(redisClient, 1, 1)
	ctx := context.Background()

	bucket.Allow(ctx, "test_user", "thumbnail_upload")
	if d, _ := bucket.Allow(ctx, "test_user", "thumbnail_upload"); d.Allowed {
		t.Fatal("Expected bucket to be empty")
	}

	if err := Reset(ctx, redisClient, "test_user", "thumbnail_upload"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if d, _ := bucket.Allow(ctx, "test_user", "thumbnail_upload"); !d.Allowed {
		t.Fatal("Expected request to be allowed after reset")
	}
}

func TestTokenBucket_KeyExpires(t *testing.T) {
	redisClient, mr := setupTestRedis(t)

	bucket := NewTokenBucket(redisClient, 2, 2)
	if _, err := bucket.Allow(context.Background(), "test_user", "video_upload"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ttl := mr.TTL("rate_limit:test_user:video_upload")
	if ttl != 2*time.Minute {
		t.Fatalf("Expected TTL of two windows, got %v", ttl)
	}
}

func TestTokenBucket_RedisDown(t *testing.T) {
	redisClient, mr := setupTestRedis(t)
	mr.Close()

	bucket := NewTokenBucket(redisClient, 1, 1)
	if _, err := bucket.Allow(context.Background(), "test_user", "video_upload"); err == nil {
		t.Fatal("Expected an error when redis is unreachable")
	}
}
