package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FactsCache keeps resolved snapshots in Redis for a short TTL so that a
// burst of requests from one session doesn't re-run three queries each.
//
// Cache failures are never authorization failures: any Redis error degrades
// to a direct database resolve. A stale or missing entry can only delay a
// role change by at most the TTL, never grant access the database wouldn't.
type FactsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

const DefaultFactsTTL = 30 * time.Second

func NewFactsCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *FactsCache {
	if ttl <= 0 {
		ttl = DefaultFactsTTL
	}
	return &FactsCache{rdb: rdb, ttl: ttl, logger: logger}
}

func factsKey(actorID uuid.UUID) string {
	return "identity:facts:" + actorID.String()
}

func (c *FactsCache) Get(ctx context.Context, actorID uuid.UUID) (Facts, bool) {
	data, err := c.rdb.Get(ctx, factsKey(actorID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("facts cache read failed", zap.Error(err))
		}
		return Facts{}, false
	}

	var facts Facts
	if err := json.Unmarshal(data, &facts); err != nil {
		c.logger.Warn("facts cache entry corrupt, dropping", zap.Error(err))
		c.Invalidate(ctx, actorID)
		return Facts{}, false
	}
	return facts, true
}

func (c *FactsCache) Set(ctx context.Context, actorID uuid.UUID, facts Facts) {
	data, err := json.Marshal(facts)
	if err != nil {
		c.logger.Warn("facts cache marshal failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, factsKey(actorID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("facts cache write failed", zap.Error(err))
	}
}

func (c *FactsCache) Invalidate(ctx context.Context, actorID uuid.UUID) {
	if err := c.rdb.Del(ctx, factsKey(actorID)).Err(); err != nil {
		c.logger.Warn("facts cache invalidate failed", zap.Error(err))
	}
}
