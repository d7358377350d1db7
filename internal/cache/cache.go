// Package cache provides Redis caching operations for label designs and
// event visible fields.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

const (
	// Cache key prefixes
	designKeyPrefix      = "design:"
	eventDesignsPrefix   = "designs:event:"
	eventFieldsKeyPrefix = "fields:event:"

	// Default TTL for cached items
	defaultTTL = 5 * time.Minute
)

// Cache defines the interface for caching operations.
type Cache interface {
	// Get retrieves a design from cache by ID.
	Get(ctx context.Context, id string) (*models.Design, error)

	// ListByEvent retrieves the cached design list of an event.
	ListByEvent(ctx context.Context, eventID string) ([]models.Design, bool, error)

	// Set stores a design in cache and invalidates its event's list.
	Set(ctx context.Context, design *models.Design) error

	// SetForEvent stores the design list of an event.
	SetForEvent(ctx context.Context, eventID string, designs []models.Design) error

	// Delete removes a design from cache and invalidates its event's list.
	Delete(ctx context.Context, id, eventID string) error

	// VisibleFields retrieves the cached visible fields of an event.
	VisibleFields(ctx context.Context, eventID string) ([]layout.VisibleField, bool, error)

	// SetVisibleFields stores the visible fields of an event.
	SetVisibleFields(ctx context.Context, eventID string, fields []layout.VisibleField) error

	// Close closes the cache connection.
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(cfg *config.Config, logger *zap.Logger) (Cache, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis cache")

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}, nil
}

// load reads key into v. A miss or any failure is reported as a miss.
func (c *RedisCache) load(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.logger.Warn("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := unmarshal(data, v); err != nil {
		c.logger.Warn("Failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	c.logger.Debug("Cache hit", zap.String("key", key))
	return true
}

func (c *RedisCache) store(ctx context.Context, key string, v any) error {
	data, err := marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode value for cache", zap.String("key", key), zap.Error(err))
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}
	c.logger.Debug("Cached value", zap.String("key", key))
	return nil
}

// Get retrieves a design from cache by ID.
func (c *RedisCache) Get(ctx context.Context, id string) (*models.Design, error) {
	var design models.Design
	if !c.load(ctx, designKeyPrefix+id, &design) {
		return nil, nil // Cache miss
	}
	return &design, nil
}

// ListByEvent retrieves the cached design list of an event.
func (c *RedisCache) ListByEvent(ctx context.Context, eventID string) ([]models.Design, bool, error) {
	var designs []models.Design
	if !c.load(ctx, eventDesignsPrefix+eventID, &designs) {
		return nil, false, nil
	}
	if designs == nil {
		designs = []models.Design{}
	}
	return designs, true, nil
}

// Set stores a design in cache.
func (c *RedisCache) Set(ctx context.Context, design *models.Design) error {
	if err := c.store(ctx, designKeyPrefix+design.ID, design); err != nil {
		return err
	}
	// Invalidate the event list since data changed
	return c.invalidateEvent(ctx, design.EventID)
}

// SetForEvent stores the design list of an event.
func (c *RedisCache) SetForEvent(ctx context.Context, eventID string, designs []models.Design) error {
	return c.store(ctx, eventDesignsPrefix+eventID, designs)
}

// Delete removes a design from cache.
func (c *RedisCache) Delete(ctx context.Context, id, eventID string) error {
	key := designKeyPrefix + id

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.logger.Debug("Deleted from cache", zap.String("key", key))
	return c.invalidateEvent(ctx, eventID)
}

// invalidateEvent drops the cached list of an event and of all designs.
func (c *RedisCache) invalidateEvent(ctx context.Context, eventID string) error {
	keys := []string{eventDesignsPrefix}
	if eventID != "" {
		keys = append(keys, eventDesignsPrefix+eventID)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to invalidate design lists", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// VisibleFields retrieves the cached visible fields of an event.
func (c *RedisCache) VisibleFields(ctx context.Context, eventID string) ([]layout.VisibleField, bool, error) {
	var fields []layout.VisibleField
	if !c.load(ctx, eventFieldsKeyPrefix+eventID, &fields) {
		return nil, false, nil
	}
	return fields, true, nil
}

// SetVisibleFields stores the visible fields of an event.
func (c *RedisCache) SetVisibleFields(ctx context.Context, eventID string, fields []layout.VisibleField) error {
	return c.store(ctx, eventFieldsKeyPrefix+eventID, fields)
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}
