package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// hitScript mirrors apply(). Times are unix milliseconds.
// Returns {allowed, count, windowStart}.
var hitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local start = tonumber(redis.call('HGET', key, 'start'))
local count = tonumber(redis.call('HGET', key, 'count'))

if start == nil or count == nil or now > start + window then
	redis.call('HSET', key, 'start', now, 'count', 1)
	redis.call('PEXPIRE', key, ttl)
	return {1, 1, now}
end

if count < max then
	count = redis.call('HINCRBY', key, 'count', 1)
	return {1, count, start}
end

return {0, count, start}
`)

// RedisStore shares counts across instances. Keys expire one second after
// their window, so Sweep has nothing to do.
type RedisStore struct {
	client redis.Scripter
}

func NewRedisStore(client redis.Scripter) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, Record, error) {
	ttl := window + time.Second
	res, err := hitScript.Run(ctx, s.client, []string{redisKeyPrefix + key},
		now.UnixMilli(), window.Milliseconds(), limit, ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, Record{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return false, Record{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	rec := Record{
		ClientKey:   key,
		Count:       int(res[1]),
		WindowStart: time.UnixMilli(res[2]),
	}
	return res[0] == 1, rec, nil
}

func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
