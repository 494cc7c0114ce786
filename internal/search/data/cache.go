// Package data holds the search feature's data access, currently the
// optional redis response cache.
package data

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lk2023060901/metasearch-backend/internal/conf"
	"github.com/lk2023060901/metasearch-backend/internal/search/types"
)

// SearchCache caches serialized result lists keyed by a request digest.
// Any redis failure degrades to a live search; the cache never makes a
// request fail.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSearchCache connects to redis and verifies the connection.
func NewSearchCache(cfg *conf.CacheConfig, logger *zap.Logger) (*SearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &SearchCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Key derives the cache key for a category and normalized request.
func (c *SearchCache) Key(category types.Category, req *types.SearchRequest) string {
	canonical := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d|%s|%s|%s|%s|%s|%s|%s|%s|%s",
		category, req.Query, req.Region, req.SafeSearch, req.TimeLimit,
		req.Page, req.MaxResults, req.Backend,
		req.Size, req.Color, req.TypeImage, req.Layout, req.LicenseImage,
		req.Resolution, req.Duration, req.LicenseVideos,
	)
	sum := sha1.Sum([]byte(canonical))
	return "search:" + hex.EncodeToString(sum[:])
}

// Get returns the cached payload for key, or false on a miss or error.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the redis connection.
func (c *SearchCache) Close() error {
	return c.client.Close()
}
