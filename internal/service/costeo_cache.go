package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// cacheTTL is a safety net only: invalidation is explicit (recipe mutation or
// purchase commit), never left to expiry.
const cacheTTL = 5 * time.Minute

// CosteoCache holds derived cost/capacity values in Redis.
// All methods are nil-safe and fail-open: any cache error degrades to a
// recomputation, never to a request failure.
type CosteoCache struct {
	rdb *redis.Client
}

func NewCosteoCache(rdb *redis.Client) *CosteoCache { return &CosteoCache{rdb: rdb} }

func claveCosteo(productoID uuid.UUID) string    { return "costeo:" + productoID.String() }
func claveCapacidad(productoID uuid.UUID) string { return "capacidad:" + productoID.String() }

// Get loads a cached value into dest; returns false on miss or any error.
func (c *CosteoCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// Set stores v under key. Best-effort.
func (c *CosteoCache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("costeo cache set failed")
	}
}

// Invalidar drops the cached cost and capacity of the given products.
// Called on every recipe-line mutation and on every committed purchase that
// changes an ingredient's weighted-average cost.
func (c *CosteoCache) Invalidar(ctx context.Context, productoIDs ...uuid.UUID) {
	if c == nil || c.rdb == nil || len(productoIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productoIDs)*2)
	for _, id := range productoIDs {
		keys = append(keys, claveCosteo(id), claveCapacidad(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Int("keys", len(keys)).Err(err).Msg("costeo cache invalidation failed")
	}
}
