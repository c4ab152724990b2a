package promotions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kaiwenhsu/posify-backend/pkg/db/models"
	"github.com/kaiwenhsu/posify-backend/pkg/logger"
	"github.com/kaiwenhsu/posify-backend/pkg/redis"
)

// ActiveCache keeps the active promotion set in Redis so quote requests do
// not hit Postgres on every call. Misses and marshal failures fall through
// to the database.
type ActiveCache struct {
	store redis.CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewActiveCache wires the cache. A nil store disables caching entirely.
func NewActiveCache(store redis.CacheStore, ttl time.Duration, logg *logger.Logger) *ActiveCache {
	return &ActiveCache{store: store, ttl: ttl, logg: logg}
}

func (c *ActiveCache) key() string {
	return c.store.CacheKey("promotions", "active")
}

// Get returns the cached active set, or ok=false on a miss.
func (c *ActiveCache) Get(ctx context.Context) ([]models.Promotion, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, c.key())
	if err != nil {
		if !redis.IsMiss(err) && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "reading promotion cache failed")
		}
		return nil, false
	}
	var promos []models.Promotion
	if err := json.Unmarshal([]byte(raw), &promos); err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "decoding promotion cache failed")
		}
		return nil, false
	}
	return promos, true
}

// Set stores the active set with the configured TTL.
func (c *ActiveCache) Set(ctx context.Context, promos []models.Promotion) {
	if c == nil || c.store == nil {
		return
	}
	payload, err := json.Marshal(promos)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "encoding promotion cache failed")
		}
		return
	}
	if err := c.store.Set(ctx, c.key(), string(payload), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "writing promotion cache failed")
	}
}

// Invalidate drops the cached set after any promotion write.
func (c *ActiveCache) Invalidate(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Del(ctx, c.key()); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "invalidating promotion cache failed")
	}
}
