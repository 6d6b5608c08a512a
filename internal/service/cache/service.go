package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/dbd-kakao-bot-go/internal/domain"
	"github.com/kapu/dbd-kakao-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

const datasetKeyPrefix = "dbd:perks:"

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("exists failed", "exists", key, err)
	}
	return count > 0, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for Redis to be ready")
		case <-ticker.C:
			if c.IsConnected(ctx) {
				return nil
			}
		}
	}
}

// DatasetEnvelope wraps a cached dataset with its write timestamp. Entries are
// overwritten on refresh, never expired by Redis, so stale data stays
// available as a fallback when the wiki is unreachable.
type DatasetEnvelope struct {
	Dataset   *domain.PerkDataset `json:"dataset"`
	WrittenAt time.Time           `json:"writtenAt"`
}

// IsFresh reports whether the envelope is still within ttl at the given time.
func (e *DatasetEnvelope) IsFresh(now time.Time, ttl time.Duration) bool {
	if e == nil || e.Dataset == nil {
		return false
	}
	return now.Sub(e.WrittenAt) <= ttl
}

func datasetKey(category domain.Category) string {
	return datasetKeyPrefix + category.String()
}

// GetDataset loads the cached dataset envelope for a category. A missing or
// unreadable entry is reported as absent, not as an error.
func (c *CacheService) GetDataset(ctx context.Context, category domain.Category) (*DatasetEnvelope, bool) {
	var envelope DatasetEnvelope
	if err := c.Get(ctx, datasetKey(category), &envelope); err != nil {
		c.logger.Debug("Dataset cache miss or error", zap.String("category", category.String()))
		return nil, false
	}

	if envelope.Dataset == nil {
		return nil, false
	}

	return &envelope, true
}

// SetDataset overwrites the cached dataset for a category with a fresh write
// timestamp. No Redis TTL is applied; staleness is decided by readers.
func (c *CacheService) SetDataset(ctx context.Context, category domain.Category, dataset *domain.PerkDataset) error {
	envelope := &DatasetEnvelope{
		Dataset:   dataset,
		WrittenAt: time.Now(),
	}
	return c.Set(ctx, datasetKey(category), envelope, 0)
}

func (c *CacheService) GetRedisClient() *redis.Client {
	return c.client
}
