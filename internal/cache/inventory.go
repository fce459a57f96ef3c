// internal/cache/inventory.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/bodegapos/backend/internal/config"
	"github.com/bodegapos/backend/internal/domain"
)

const inventoryKeyPrefix = "inventory:branch:"

// InventoryCache is a read-through cache for per-branch inventory listings.
// Stock-mutating transactions invalidate the affected branches after commit.
// A nil *InventoryCache is valid and disables caching.
type InventoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInventoryCache returns nil when caching is disabled in the config.
func NewInventoryCache(cfg config.CacheConfig) (*InventoryCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &InventoryCache{client: client, ttl: ttl}, nil
}

func (c *InventoryCache) Get(ctx context.Context, branchID string) ([]domain.BranchStock, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, inventoryKeyPrefix+branchID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("branch_id", branchID).Msg("inventory cache read failed")
		}
		return nil, false
	}
	var rows []domain.BranchStock
	if err := json.Unmarshal(payload, &rows); err != nil {
		log.Warn().Err(err).Str("branch_id", branchID).Msg("inventory cache payload corrupt")
		return nil, false
	}
	return rows, true
}

func (c *InventoryCache) Set(ctx context.Context, branchID string, rows []domain.BranchStock) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		log.Warn().Err(err).Str("branch_id", branchID).Msg("inventory cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, inventoryKeyPrefix+branchID, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("branch_id", branchID).Msg("inventory cache write failed")
	}
}

// Invalidate drops the cached listings for the given branches.
func (c *InventoryCache) Invalidate(ctx context.Context, branchIDs ...string) {
	if c == nil || len(branchIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(branchIDs))
	for _, id := range branchIDs {
		keys = append(keys, inventoryKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("inventory cache invalidation failed")
	}
}
