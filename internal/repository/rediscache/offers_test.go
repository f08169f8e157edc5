package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnguard/retention-engine/internal/domain"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client, func() {
		client.Close()
		mr.Close()
	}
}

// countingRepo counts reads so tests can observe cache hits.
type countingRepo struct {
	calls  int
	offers []domain.OfferDefinition
	err    error
}

func (r *countingRepo) ListActiveOffers(_ context.Context, _ string) ([]domain.OfferDefinition, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.offers, nil
}

func TestOfferCacheReadThrough(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	inner := &countingRepo{offers: []domain.OfferDefinition{
		{ID: "o1", OfferType: domain.OfferDiscount, Title: "Discount", IsActive: true, Priority: 1},
	}}
	cache := NewOfferCache(inner, client, time.Minute)

	first, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, inner.calls)

	// Second read is served from Redis.
	second, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestOfferCacheTTLExpiry(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	inner := &countingRepo{offers: []domain.OfferDefinition{{ID: "o1", IsActive: true}}}
	cache := NewOfferCache(inner, client, 30*time.Second)

	_, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	_, err = cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestOfferCacheCorruptEntryFallsThrough(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(cacheKey("proj-1"), "not json"))

	inner := &countingRepo{offers: []domain.OfferDefinition{{ID: "o1", IsActive: true}}}
	cache := NewOfferCache(inner, client, time.Minute)

	offers, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, 1, inner.calls)
}

func TestOfferCacheRedisDownDegrades(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()
	mr.Close() // simulate redis outage

	inner := &countingRepo{offers: []domain.OfferDefinition{{ID: "o1", IsActive: true}}}
	cache := NewOfferCache(inner, client, time.Minute)

	offers, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}

func TestOfferCacheInnerErrorPropagates(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	inner := &countingRepo{err: errors.New("db down")}
	cache := NewOfferCache(inner, client, time.Minute)

	_, err := cache.ListActiveOffers(context.Background(), "proj-1")
	assert.Error(t, err)
}

func TestOfferCacheInvalidate(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	inner := &countingRepo{offers: []domain.OfferDefinition{{ID: "o1", IsActive: true}}}
	cache := NewOfferCache(inner, client, time.Minute)

	_, err := cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), "proj-1"))

	_, err = cache.ListActiveOffers(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
