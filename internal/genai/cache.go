// internal/genai/cache.go
package genai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"northwind-agent/internal/common/database"
)

// requestDigest produces a stable cache key for a request. Fields are
// serialized in sorted key order so equal requests collide.
func requestDigest(req *Request) string {
	h := sha256.New()
	h.Write([]byte(req.Template))
	h.Write([]byte{0})

	keys := make([]string, 0, len(req.Fields))
	for k := range req.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(req.Fields[k]))
		h.Write([]byte{0})
	}
	return "genai:" + hex.EncodeToString(h.Sum(nil))
}

// RedisCache stores generator responses in Redis. Cache misses and Redis
// failures are indistinguishable to the caller; the generator is always the
// fallback.
type RedisCache struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisCache(client *database.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Response, bool) {
	raw, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, string(raw), c.ttl)
}
