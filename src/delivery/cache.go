package delivery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache memoizes delivery results within a single evaluation run so an
// identical payload sent to the same endpoint twice (e.g. re-delivered
// after an adaptive-scheduler reallocation) is not re-sent.
type Cache interface {
	Get(ctx context.Context, endpoint, content string) (RawResponse, bool)
	Put(ctx context.Context, endpoint, content string, resp RawResponse)
}

// NoopCache never stores or returns anything; used when caching is
// disabled or a Redis instance is unavailable for the run.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) (RawResponse, bool) { return RawResponse{}, false }
func (NoopCache) Put(context.Context, string, string, RawResponse)        {}

// cachedResponse is RawResponse's JSON-safe wire shape; RawResponse.Err
// is dropped since only successful deliveries are worth memoizing.
type cachedResponse struct {
	StatusCode int           `json:"status_code"`
	Body       []byte        `json:"body"`
	Latency    time.Duration `json:"latency_ns"`
}

// RedisCache stores delivery results in Redis (or a miniredis instance
// in tests) keyed by a hash of (endpoint, content), with a bounded TTL
// so a long-running evaluation doesn't accumulate memory indefinitely.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a RedisCache. ttl <= 0 defaults to one hour,
// comfortably longer than any single evaluation run.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, endpoint, content string) (RawResponse, bool) {
	raw, err := c.client.Get(ctx, cacheKey(endpoint, content)).Bytes()
	if err != nil {
		return RawResponse{}, false
	}
	var cached cachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return RawResponse{}, false
	}
	return RawResponse{StatusCode: cached.StatusCode, Body: cached.Body, Latency: cached.Latency}, true
}

func (c *RedisCache) Put(ctx context.Context, endpoint, content string, resp RawResponse) {
	if resp.Err != nil {
		return
	}
	raw, err := json.Marshal(cachedResponse{StatusCode: resp.StatusCode, Body: resp.Body, Latency: resp.Latency})
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(endpoint, content), raw, c.ttl)
}

func cacheKey(endpoint, content string) string {
	sum := sha256.Sum256([]byte(endpoint + "\x00" + content))
	return fmt.Sprintf("a2aeval:delivery:%s", hex.EncodeToString(sum[:]))
}
