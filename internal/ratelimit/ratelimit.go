package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// tokenBucketScript takes one token if available and reports the bucket
// state in the same round trip. Returns {allowed, remaining}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_rate = tonumber(ARGV[2])
	local window = tonumber(ARGV[3])
	local now = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local tokens = tonumber(bucket[1]) or capacity
	local last_refill = tonumber(bucket[2]) or now

	local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
	if tokens_to_add > 0 then
		tokens = math.min(capacity, tokens + tokens_to_add)
		last_refill = now
	end

	local allowed = 0
	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
	redis.call('EXPIRE', key, window * 2)
	return {allowed, tokens}
`)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	Window    time.Duration
}

// TokenBucket is a per-key token bucket stored in Redis so that every
// instance of the service shares the same budget.
type TokenBucket struct {
	redis    redis.Cmdable
	capacity int64
	refill   int64 // tokens added per window
	window   time.Duration
}

// NewTokenBucket creates a bucket holding capacity tokens that refills
// refillRate tokens per minute.
func NewTokenBucket(client redis.Cmdable, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    client,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

func key(userID, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", userID, action)
}

// Allow consumes one token for userID performing action.
func (tb *TokenBucket) Allow(ctx context.Context, userID, action string) (Decision, error) {
	d := Decision{Limit: tb.capacity, Window: tb.window}

	res, err := tokenBucketScript.Run(ctx, tb.redis, []string{key(userID, action)},
		tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()).Result()
	if err != nil {
		return d, fmt.Errorf("rate limit check failed: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return d, fmt.Errorf("unexpected result from rate limit script: %v", res)
	}
	allowed, ok1 := vals[0].(int64)
	remaining, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return d, fmt.Errorf("unexpected result from rate limit script: %v", res)
	}

	d.Allowed = allowed == 1
	d.Remaining = remaining
	return d, nil
}

// Reset clears the bucket for a specific user action
func Reset(ctx context.Context, client redis.Cmdable, userID, action string) error {
	return client.Del(ctx, key(userID, action)).Err()
}
