// Package rediscache provides a short-TTL read-through cache for active
// offer definitions. Offer configuration is read-only for the duration of a
// decision, so serving a slightly stale snapshot is safe.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/churnguard/retention-engine/internal/domain"
	"github.com/churnguard/retention-engine/internal/pkg/logger"
	"github.com/churnguard/retention-engine/internal/service/decision"
)

// DefaultTTL keeps cached offer snapshots short-lived so operator edits show
// up within a minute.
const DefaultTTL = 60 * time.Second

// OfferCache wraps an OfferRepository with a Redis read-through cache. Redis
// failures degrade to the inner repository; they never fail the request.
type OfferCache struct {
	inner  decision.OfferRepository
	client *redis.Client
	ttl    time.Duration
}

// NewOfferCache creates a caching layer over inner with the given TTL
// (DefaultTTL if ttl <= 0).
func NewOfferCache(inner decision.OfferRepository, client *redis.Client, ttl time.Duration) *OfferCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &OfferCache{inner: inner, client: client, ttl: ttl}
}

func cacheKey(projectID string) string {
	return "offers:active:" + projectID
}

// ListActiveOffers returns the cached snapshot when present, otherwise reads
// through to the inner repository and stores the result.
func (c *OfferCache) ListActiveOffers(ctx context.Context, projectID string) ([]domain.OfferDefinition, error) {
	key := cacheKey(projectID)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var offers []domain.OfferDefinition
		if jsonErr := json.Unmarshal(data, &offers); jsonErr == nil {
			return offers, nil
		}
		// Corrupt entry: drop it and fall through to the source of truth.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		logger.Warn("offer cache read failed", "project_id", projectID, "error", err.Error())
	}

	offers, err := c.inner.ListActiveOffers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(offers); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Warn("offer cache write failed", "project_id", projectID, "error", err.Error())
		}
	}

	return offers, nil
}

// Invalidate drops a project's cached snapshot, for use by configuration
// write paths.
func (c *OfferCache) Invalidate(ctx context.Context, projectID string) error {
	if err := c.client.Del(ctx, cacheKey(projectID)).Err(); err != nil {
		return fmt.Errorf("invalidate offer cache: %w", err)
	}
	return nil
}
