package service

import (
	"context"
	"testing"
	"time"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingApplianceRepo records how often the listing views hit the database.
type countingApplianceRepo struct {
	memApplianceRepo
	popularCalls int
	brandCalls   int
	// duringPopular runs inside the load, before the view is returned
	duringPopular func()
}

func (r *countingApplianceRepo) ListPopular(_ context.Context, limit int32) ([]domain.ApplianceListing, error) {
	r.popularCalls++
	if r.duringPopular != nil {
		r.duringPopular()
	}
	return []domain.ApplianceListing{{Appliance: domain.Appliance{ID: "appliance-1", Name: "Fridge"}}}, nil
}

func (r *countingApplianceRepo) ListBrands(context.Context) ([]string, error) {
	r.brandCalls++
	return []string{"Bosch", "LG"}, nil
}

func newCatalogFixture(t *testing.T) (*countingApplianceRepo, cache.ListingCache, CatalogService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	listingCache := cache.NewRedisCacheWithClient(client, time.Minute)

	store := newMemStore()
	store.seedAppliance(domain.Appliance{ID: "appliance-1", Pricing: testTiers, Status: domain.ApplianceStatusAvailable})
	repo := &countingApplianceRepo{memApplianceRepo: memApplianceRepo{store.committed()}}
	return repo, listingCache, NewCatalogService(repo, listingCache, config.RentalConfig{MinDurationDays: 30})
}

func TestCatalogService_CachedViews(t *testing.T) {
	ctx := context.Background()
	repo, listingCache, svc := newCatalogFixture(t)

	for i := 0; i < 3; i++ {
		popular, err := svc.ListPopular(ctx)
		require.NoError(t, err)
		require.Len(t, popular, 1)
		assert.Equal(t, "Fridge", popular[0].Name)
	}
	assert.Equal(t, 1, repo.popularCalls)

	require.NoError(t, listingCache.Invalidate(ctx))
	_, err := svc.ListPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.popularCalls)

	brands, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bosch", "LG"}, brands)
}

func TestCatalogService_InvalidateDuringLoadIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo, listingCache, svc := newCatalogFixture(t)

	repo.duringPopular = func() {
		repo.duringPopular = nil
		require.NoError(t, listingCache.Invalidate(ctx))
	}
	_, err := svc.ListPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.popularCalls)

	_, err = svc.ListPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.popularCalls)

	_, err = svc.ListPopular(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.popularCalls)
}

func TestCatalogService_WarmCache(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newCatalogFixture(t)

	require.NoError(t, svc.WarmCache(ctx))
	assert.Equal(t, 1, repo.popularCalls)
	assert.Equal(t, 1, repo.brandCalls)

	_, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.brandCalls)
}

func TestCatalogService_Quote(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newCatalogFixture(t)

	t.Run("Leap year span", func(t *testing.T) {
		cost, err := svc.Quote(ctx, "appliance-1", "2024-01-01", "2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, 60, cost.Days)
		assert.Equal(t, int64(4000), cost.TotalCost)
		assert.Equal(t, int64(5000), cost.Deposit)
	})

	t.Run("Non leap year span", func(t *testing.T) {
		cost, err := svc.Quote(ctx, "appliance-1", "2023-01-01", "2023-03-01")
		require.NoError(t, err)
		assert.Equal(t, 59, cost.Days)
		assert.Equal(t, int64(4500), cost.TotalCost)
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := svc.Quote(ctx, "appliance-1", "2024-01-01", "2024-01-10")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown appliance", func(t *testing.T) {
		_, err := svc.Quote(ctx, "missing", "2024-01-01", "2024-03-01")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCatalogService_SearchRejectsInvertedPriceRange(t *testing.T) {
	_, _, svc := newCatalogFixture(t)
	lo, hi := int64(500), int64(100)
	_, _, err := svc.SearchAppliances(context.Background(), domain.ApplianceFilter{MinDaily: &lo, MaxDaily: &hi})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
