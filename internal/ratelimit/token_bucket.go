package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis truncates Lua numbers to integers on return, so the fractional token
// count travels back as a string.
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
  ts = now
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", ts)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, tostring(tokens)}
`

// TokenBucket is a token bucket shared by every instance through redis.
type TokenBucket struct {
	client redis.Scripter
	script *redis.Script
}

func NewTokenBucket(client redis.Scripter) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
	}
}

// Allow takes one token from the bucket stored at key. rate is tokens per
// second.
func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (Decision, error) {
	if t == nil || t.client == nil {
		return Decision{}, errors.New("rate limiter not configured")
	}
	if key == "" {
		return Decision{}, errors.New("rate limiter key is empty")
	}
	if rate <= 0 || burst <= 0 {
		return Decision{}, errors.New("rate limiter rate and burst must be positive")
	}

	ttl := bucketTTL(rate, burst)
	res, err := t.script.Run(ctx, t.client, []string{key}, rate, burst, ttl.Milliseconds()).Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) < 2 {
		return Decision{}, errors.New("invalid rate limit script response")
	}

	allowed, ok := res[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("invalid rate limit flag %v", res[0])
	}
	raw, ok := res[1].(string)
	if !ok {
		return Decision{}, fmt.Errorf("invalid rate limit tokens %v", res[1])
	}
	tokens, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Decision{}, fmt.Errorf("parse rate limit tokens: %w", err)
	}

	decision := Decision{Allowed: allowed == 1, Remaining: int(tokens)}
	if !decision.Allowed {
		decision.RetryAfter = refillDelay(tokens, rate)
	}
	return decision, nil
}

func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Ceil((float64(burst) / rate) * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// refillDelay is the time until the bucket holds one whole token again.
func refillDelay(tokens, rate float64) time.Duration {
	needed := 1.0 - tokens
	if needed <= 0 {
		return 0
	}
	return time.Duration(needed / rate * float64(time.Second))
}
