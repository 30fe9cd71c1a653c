package completion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Cache stores completion text by key. Implementations live under
// internal/storage.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Cached serves repeated requests from a cache. Cache failures are logged
// and bypassed; only successful completions are stored.
type Cached struct {
	next   Completer
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with cache.
func NewCached(next Completer, cache Cache, ttl time.Duration, l *zap.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger(l)}
}

// Name returns the wrapped completer's name.
func (c *Cached) Name() string {
	return c.next.Name()
}

// CacheKey derives the cache key for req sent to the named completer.
func CacheKey(name string, req Request) string {
	body, _ := json.Marshal(req)
	sum := sha256.Sum256(append([]byte(name+"\x00"), body...))
	return "vibe:completion:" + hex.EncodeToString(sum[:])
}

// Complete returns the cached completion for req or asks the wrapped
// completer and stores its answer.
func (c *Cached) Complete(ctx context.Context, req Request) (string, error) {
	key := CacheKey(c.next.Name(), req)

	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("completion cache read failed", zap.Error(err))
	} else if ok {
		c.logger.Debug("completion cache hit", zap.String("key", key))
		return v, nil
	}

	v, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, v, c.ttl); err != nil {
		c.logger.Warn("completion cache write failed", zap.Error(err))
	}
	return v, nil
}
