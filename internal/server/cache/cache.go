// Package cache memoizes search analysis and price comparisons in Redis.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/config"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/metrics"
)

// Cache TTLs per namespace.
const (
	SearchTTL    = 30 * time.Minute
	AnalysisTTL  = time.Hour
	searchNS     = "search"
	analysisNS   = "recommend"
)

// Cache is a Redis-backed memoizer. A nil client degrades to a pass-through
// cache so the service keeps working without Redis.
type Cache struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedisClient builds a Redis client the service's cache runs on.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

func New(client *redis.Client, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		log:    log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

// Ping tests the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("cache disabled")
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Key derives the cache key for a namespace and input string. Inputs are
// hashed so arbitrary queries stay within key length and charset limits.
func Key(namespace, input string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(input))))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// GetSearch loads a cached search payload into dest.
func (c *Cache) GetSearch(ctx context.Context, query string, dest interface{}) bool {
	return c.get(ctx, Key(searchNS, query), dest)
}

// SetSearch stores a search payload.
func (c *Cache) SetSearch(ctx context.Context, query string, value interface{}) {
	c.set(ctx, Key(searchNS, query), value, SearchTTL)
}

// GetAnalysis loads a cached query analysis into dest.
func (c *Cache) GetAnalysis(ctx context.Context, query string, dest interface{}) bool {
	return c.get(ctx, Key(analysisNS, query), dest)
}

// SetAnalysis stores a query analysis.
func (c *Cache) SetAnalysis(ctx context.Context, query string, value interface{}) {
	c.set(ctx, Key(analysisNS, query), value, AnalysisTTL)
}

// InvalidateSearches drops every cached search payload.
func (c *Cache) InvalidateSearches(ctx context.Context) error {
	return c.Invalidate(ctx, searchNS)
}

// InvalidateAnalyses drops every cached query analysis.
func (c *Cache) InvalidateAnalyses(ctx context.Context) error {
	return c.Invalidate(ctx, analysisNS)
}

// Invalidate removes all keys in the given namespace.
func (c *Cache) Invalidate(ctx context.Context, namespace string) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, namespace+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s keys: %w", namespace, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %s keys: %w", namespace, err)
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return false
	}
	if err != nil {
		metrics.CacheMisses.Inc()
		c.log.WithError(err).Warn("cache read failed", map[string]interface{}{"key": key})
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		metrics.CacheMisses.Inc()
		c.log.WithError(err).Warn("cache entry corrupt", map[string]interface{}{"key": key})
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

func (c *Cache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).Warn("cache encode failed", map[string]interface{}{"key": key})
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.WithError(err).Warn("cache write failed", map[string]interface{}{"key": key})
	}
}
