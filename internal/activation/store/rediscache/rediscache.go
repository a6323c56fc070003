// Package rediscache decorates a RecordStore with a Redis read-through cache.
//
// A cached record is a session-scoped snapshot: every successful Save
// invalidates the key so the next guard evaluation re-reads the backing
// store, matching the rule that a record is stale after any step-completion
// mutation until re-fetched.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"taskgate/internal/activation/models"
	"taskgate/internal/activation/store"
	id "taskgate/pkg/domain"
)

// DefaultTTL bounds staleness for records mutated outside this process.
const DefaultTTL = 5 * time.Minute

// Cache wraps a backing RecordStore with Redis.
type Cache struct {
	backing store.RecordStore
	client  redis.Cmdable
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates a read-through cache. A nil client would be a wiring bug, so
// callers must only construct the cache when Redis is configured.
func New(backing store.RecordStore, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{backing: backing, client: client, ttl: ttl, logger: logger}
}

func cacheKey(userID id.UserID) string {
	return "activation:record:" + userID.String()
}

// Get serves from Redis when possible, falling back to the backing store.
// Cache failures degrade to the backing store, never to an error.
func (c *Cache) Get(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	key := cacheKey(userID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var record models.ActivationRecord
		if unmarshalErr := json.Unmarshal(payload, &record); unmarshalErr == nil {
			return &record, nil
		}
		// Corrupt entry: drop it and fall through to the backing store.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "record cache read failed, falling back to store",
			"error", err, "user_id", userID.String())
	}

	record, err := c.backing.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(record); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "record cache write failed",
				"error", setErr, "user_id", userID.String())
		}
	}
	return record, nil
}

// Save writes through to the backing store, then invalidates the cache entry.
// Invalidation failures are logged, not returned: the TTL bounds the damage
// and returning an error here would falsely fail an already-persisted write.
func (c *Cache) Save(ctx context.Context, record *models.ActivationRecord, expectedVersion int64) error {
	if err := c.backing.Save(ctx, record, expectedVersion); err != nil {
		return err
	}
	if err := c.client.Del(ctx, cacheKey(record.UserID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "record cache invalidation failed",
			"error", err, "user_id", record.UserID.String())
	}
	return nil
}
