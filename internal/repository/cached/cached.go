// Package cached provides a redis read-through decorator for any repository backend.
// Records are immutable for the life of the API, so entries only expire by TTL.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"repoapi/internal/repository"
)

// Client is the subset of *redis.Client the decorator needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

// Backend caches found records of base in redis under "<prefix>:<id>".
// Absence is never cached, and redis failures fall through to base.
type Backend[E any] struct {
	base   repository.Backend[E]
	client Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps base with a read-through cache.
func New[E any](base repository.Backend[E], client Client, prefix string, ttl time.Duration, logger *zap.Logger) *Backend[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend[E]{
		base:   base,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "cache"), zap.String("prefix", prefix)),
	}
}

var _ repository.Backend[struct{}] = (*Backend[struct{}])(nil)

func (b *Backend[E]) key(id repository.ID) string {
	return fmt.Sprintf("%s:%d", b.prefix, id)
}

// Get serves id from redis when present and from base otherwise.
func (b *Backend[E]) Get(ctx context.Context, id repository.ID) (E, error) {
	key := b.key(id)

	raw, err := b.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e E
		jerr := json.Unmarshal(raw, &e)
		if jerr == nil {
			return e, nil
		}
		b.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(jerr))
	case errors.Is(err, redis.Nil):
	default:
		b.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	e, err := b.base.Get(ctx, id)
	if err != nil {
		return e, err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		b.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return e, nil
	}
	if err := b.client.Set(ctx, key, payload, b.ttl).Err(); err != nil {
		b.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return e, nil
}
