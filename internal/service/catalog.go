package service

import (
	"context"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/utils"
)

const (
	popularLimit  int32 = 8
	featuredLimit int32 = 5

	popularKey  = "popular"
	featuredKey = "featured"
	brandsKey   = "brands"
)

type catalogService struct {
	applianceRepo repository.ApplianceRepository
	cache         cache.ListingCache
	cfg           config.RentalConfig
}

func NewCatalogService(applianceRepo repository.ApplianceRepository, listingCache cache.ListingCache, cfg config.RentalConfig) CatalogService {
	return &catalogService{applianceRepo: applianceRepo, cache: listingCache, cfg: cfg}
}

func (s *catalogService) SearchAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error) {
	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)
	if filter.MinDaily != nil && filter.MaxDaily != nil && *filter.MinDaily > *filter.MaxDaily {
		return nil, 0, domain.Validationf("min price cannot exceed max price")
	}
	return s.applianceRepo.Search(ctx, filter)
}

func (s *catalogService) GetAppliance(ctx context.Context, id string) (*domain.Appliance, error) {
	return s.applianceRepo.GetByID(ctx, id)
}

func (s *catalogService) ListPopular(ctx context.Context) ([]domain.ApplianceListing, error) {
	return cached(ctx, s.cache, popularKey, func(ctx context.Context) ([]domain.ApplianceListing, error) {
		return s.applianceRepo.ListPopular(ctx, popularLimit)
	})
}

func (s *catalogService) ListFeatured(ctx context.Context) ([]domain.ApplianceListing, error) {
	return cached(ctx, s.cache, featuredKey, func(ctx context.Context) ([]domain.ApplianceListing, error) {
		return s.applianceRepo.ListFeatured(ctx, featuredLimit)
	})
}

func (s *catalogService) ListBrands(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, brandsKey, s.applianceRepo.ListBrands)
}

// Quote prices a prospective rental with the same rules CreateRental applies.
func (s *catalogService) Quote(ctx context.Context, applianceID, startDate, endDate string) (*utils.RentalCostBreakdown, error) {
	start, end, err := utils.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	days, err := utils.DaysBetween(start, end)
	if err != nil {
		return nil, err
	}
	if days < s.cfg.MinDurationDays {
		return nil, domain.Validationf("minimum rental duration is %d days, got %d", s.cfg.MinDurationDays, days)
	}
	a, err := s.applianceRepo.GetByID(ctx, applianceID)
	if err != nil {
		return nil, err
	}
	cost, err := utils.CalculateRentalCost(start, end, a.Pricing)
	if err != nil {
		return nil, err
	}
	return &cost, nil
}

// WarmCache rebuilds every cached listing view.
func (s *catalogService) WarmCache(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return err
	}
	if _, err := s.ListPopular(ctx); err != nil {
		return err
	}
	if _, err := s.ListFeatured(ctx); err != nil {
		return err
	}
	_, err := s.ListBrands(ctx)
	return err
}

// cached serves key from the listing cache, loading and storing it on a miss.
// Cache failures fall through to the loader.
func cached[T any](ctx context.Context, c cache.ListingCache, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	slot, hit, err := c.Get(ctx, key, &value)
	if err != nil {
		logger.Warn("Listing cache read failed", "key", key, "error", err)
	}
	if hit {
		return value, nil
	}
	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, slot, value); err != nil {
		logger.Warn("Listing cache write failed", "key", key, "error", err)
	}
	return value, nil
}
