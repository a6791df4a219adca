package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/brewhaus/internal/catalog/domain"
	"github.com/smallbiznis/brewhaus/internal/config"
	"go.uber.org/zap"
)

const (
	productListKey = "catalog:products:active"
	productListTTL = 5 * time.Minute
)

// Cache is a best-effort redis cache for the default product listing.
// A nil receiver or disabled cache is a no-op; the catalog never depends on it.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

// New builds the catalog cache. Returns a disabled cache when no redis
// address is configured.
func New(cfg config.Config, log *zap.Logger) *Cache {
	if cfg.RedisAddr == "" {
		return &Cache{log: log.Named("catalog.cache")}
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &Cache{client: client, log: log.Named("catalog.cache")}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetActiveProducts returns the cached default listing, or nil on miss.
func (c *Cache) GetActiveProducts(ctx context.Context) []domain.Product {
	if !c.enabled() {
		return nil
	}
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache read failed", zap.Error(err))
		}
		return nil
	}
	var items []domain.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// SetActiveProducts stores the default listing.
func (c *Cache) SetActiveProducts(ctx context.Context, items []domain.Product) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productListKey, raw, productListTTL).Err(); err != nil {
		c.log.Debug("cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing after any catalog write.
func (c *Cache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, productListKey).Err(); err != nil {
		c.log.Debug("cache invalidate failed", zap.Error(err))
	}
}
