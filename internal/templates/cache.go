package templates

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a cached template stays valid.
const DefaultCacheTTL = time.Hour

const cacheKeyPrefix = "enrollment-pdf:template:"

// CachedSource keeps template bytes in Redis in front of another source.
// Cache failures are logged and fall through to the wrapped source.
type CachedSource struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps next with a Redis cache.
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{next: next, client: client, ttl: ttl, logger: logger}
}

// Template returns the cached bytes or fetches and caches them.
func (s *CachedSource) Template(ctx context.Context, name string) ([]byte, error) {
	key := cacheKeyPrefix + name

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("template cache read failed", zap.String("template", name), zap.Error(err))
	}

	data, err = s.next.Template(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("template cache write failed", zap.String("template", name), zap.Error(err))
	}
	return data, nil
}

// Invalidate drops the cached copy of a template.
func (s *CachedSource) Invalidate(ctx context.Context, name string) error {
	return s.client.Del(ctx, cacheKeyPrefix+name).Err()
}
