package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/summitrentals/voice-service/internal/domain"
	"github.com/summitrentals/voice-service/internal/repository"
	"github.com/summitrentals/voice-service/pkg/logger"
	"github.com/summitrentals/voice-service/pkg/redis"
	"go.uber.org/zap"
)

// clientCacheTTL keeps phone-line resolutions hot for a few minutes. Every
// webhook event re-resolves its client, so even a short TTL saves most of
// the lookups within a single call.
const clientCacheTTL = 5 * time.Minute

// CachedClientRepository decorates a ClientRepository with a Redis cache on
// the phone-line resolution path. Cache failures fall through to the
// database; the cache is an optimization, never a source of truth.
type CachedClientRepository struct {
	inner    repository.ClientRepository
	redisSvc redis.RedisServiceInterface
}

// NewCachedClientRepository wraps a client repository with Redis caching.
// A nil redis service yields a pass-through wrapper.
func NewCachedClientRepository(inner repository.ClientRepository, redisSvc redis.RedisServiceInterface) *CachedClientRepository {
	return &CachedClientRepository{inner: inner, redisSvc: redisSvc}
}

// GetByID passes through to the underlying repository.
func (c *CachedClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return c.inner.GetByID(ctx, id)
}

// GetDefault passes through to the underlying repository.
func (c *CachedClientRepository) GetDefault(ctx context.Context) (*domain.Client, error) {
	return c.inner.GetDefault(ctx)
}

// GetByPhoneLineID resolves a phone line to its client, consulting the cache
// first.
func (c *CachedClientRepository) GetByPhoneLineID(ctx context.Context, phoneLineID string) (*domain.Client, error) {
	if c.redisSvc == nil || phoneLineID == "" {
		return c.inner.GetByPhoneLineID(ctx, phoneLineID)
	}

	key := c.redisSvc.GenerateKey(redis.CLIENT_BY_LINE, phoneLineID)
	if val, err := c.redisSvc.GetValue(ctx, key); err == nil {
		var client domain.Client
		if err := json.Unmarshal([]byte(val), &client); err == nil {
			return &client, nil
		}
		logger.Base().Warn("dropping unreadable cached client", zap.String("key", key))
		_ = c.redisSvc.DelValue(ctx, key)
	} else if !errors.Is(err, redis.ErrKeyNotExist) {
		logger.Base().Warn("client cache read failed", zap.Error(err))
	}

	client, err := c.inner.GetByPhoneLineID(ctx, phoneLineID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(client); err == nil {
		if err := c.redisSvc.SetValue(ctx, key, string(data), clientCacheTTL); err != nil {
			logger.Base().Warn("client cache write failed", zap.Error(err))
		}
	}

	return client, nil
}
