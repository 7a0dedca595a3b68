package service

import (
	"context"
	"fmt"
	"strings"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type applianceService struct {
	tx            repository.Transactor
	applianceRepo repository.ApplianceRepository
	categoryRepo  repository.CategoryRepository
	cache         cache.ListingCache
	cfg           config.RentalConfig
}

func NewApplianceService(
	tx repository.Transactor,
	applianceRepo repository.ApplianceRepository,
	categoryRepo repository.CategoryRepository,
	listingCache cache.ListingCache,
	cfg config.RentalConfig,
) ApplianceService {
	return &applianceService{
		tx:            tx,
		applianceRepo: applianceRepo,
		categoryRepo:  categoryRepo,
		cache:         listingCache,
		cfg:           cfg,
	}
}

func (s *applianceService) validate(ctx context.Context, a *domain.Appliance) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return domain.Validationf("name is required")
	}
	if a.CategoryID == "" {
		return domain.Validationf("category_id is required")
	}
	if err := a.Pricing.Validate(); err != nil {
		return err
	}
	if a.Pricing.Daily == 0 && a.Pricing.Weekly == 0 && a.Pricing.Monthly == 0 {
		return domain.Validationf("at least one pricing tier is required")
	}
	category, err := s.categoryRepo.GetByID(ctx, a.CategoryID)
	if err != nil {
		return err
	}
	if !category.IsActive {
		return domain.Validationf("category %s is not active", category.Name)
	}
	return nil
}

// ownedAppliance loads an appliance and checks the caller owns it.
func ownedAppliance(ctx context.Context, repo repository.ApplianceRepository, actor domain.Actor, id string, forUpdate bool) (*domain.Appliance, error) {
	var a *domain.Appliance
	var err error
	if forUpdate {
		a, err = repo.GetByIDForUpdate(ctx, id)
	} else {
		a, err = repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if a.ProviderID != actor.UserID {
		return nil, fmt.Errorf("%w: appliance %s belongs to another provider", domain.ErrForbidden, id)
	}
	return a, nil
}

func (s *applianceService) CreateAppliance(ctx context.Context, actor domain.Actor, a *domain.Appliance) (*domain.Appliance, error) {
	logger.EnterMethod("applianceService.CreateAppliance", "providerID", actor.UserID, "name", a.Name)
	if err := requireProvider(actor); err != nil {
		logger.ExitMethodWithError("applianceService.CreateAppliance", err)
		return nil, err
	}
	if err := s.validate(ctx, a); err != nil {
		logger.ExitMethodWithError("applianceService.CreateAppliance", err, "reason", "invalid appliance")
		return nil, err
	}
	a.ID = ""
	a.ProviderID = actor.UserID
	a.Status = domain.ApplianceStatusAvailable
	a.Rating, a.ReviewCount = 0, 0
	if err := s.applianceRepo.Create(ctx, a); err != nil {
		logger.ExitMethodWithError("applianceService.CreateAppliance", err)
		return nil, err
	}
	s.invalidate(ctx)
	logger.ExitMethod("applianceService.CreateAppliance", "applianceID", a.ID)
	return a, nil
}

// UpdateAppliance changes descriptive fields and pricing. Status is owned by the
// rental lifecycle and the maintenance toggle and is never taken from input.
func (s *applianceService) UpdateAppliance(ctx context.Context, actor domain.Actor, id string, upd *domain.Appliance) (*domain.Appliance, error) {
	logger.EnterMethod("applianceService.UpdateAppliance", "providerID", actor.UserID, "applianceID", id)
	if err := requireProvider(actor); err != nil {
		logger.ExitMethodWithError("applianceService.UpdateAppliance", err)
		return nil, err
	}
	existing, err := ownedAppliance(ctx, s.applianceRepo, actor, id, false)
	if err != nil {
		logger.ExitMethodWithError("applianceService.UpdateAppliance", err, "applianceID", id)
		return nil, err
	}
	if err := s.validate(ctx, upd); err != nil {
		logger.ExitMethodWithError("applianceService.UpdateAppliance", err)
		return nil, err
	}

	existing.Name = upd.Name
	existing.Description = upd.Description
	existing.CategoryID = upd.CategoryID
	existing.Images = upd.Images
	existing.Specifications = upd.Specifications
	existing.Pricing = upd.Pricing
	if err := s.applianceRepo.Update(ctx, existing); err != nil {
		logger.ExitMethodWithError("applianceService.UpdateAppliance", err)
		return nil, err
	}
	s.invalidate(ctx)
	logger.ExitMethod("applianceService.UpdateAppliance", "applianceID", id)
	return existing, nil
}

// DeleteAppliance soft-deletes an appliance that no rental is holding.
func (s *applianceService) DeleteAppliance(ctx context.Context, actor domain.Actor, id string) error {
	logger.EnterMethod("applianceService.DeleteAppliance", "providerID", actor.UserID, "applianceID", id)
	if err := requireProvider(actor); err != nil {
		logger.ExitMethodWithError("applianceService.DeleteAppliance", err)
		return err
	}
	err := runTx(ctx, s.tx, s.cfg.TxTimeout, "appliance.delete", func(ctx context.Context, tx repository.Tx) error {
		a, err := ownedAppliance(ctx, tx.Appliances(), actor, id, true)
		if err != nil {
			return err
		}
		holding, err := tx.Rentals().CountHoldingByAppliance(ctx, a.ID)
		if err != nil {
			return err
		}
		if holding > 0 || a.Status == domain.ApplianceStatusRented {
			return fmt.Errorf("%w: appliance %s has an open rental", domain.ErrConflict, a.ID)
		}
		return tx.Appliances().Delete(ctx, a.ID)
	}, attribute.String("appliance.id", id))
	if err != nil {
		logger.ExitMethodWithError("applianceService.DeleteAppliance", err, "applianceID", id)
		return err
	}
	s.invalidate(ctx)
	logger.ExitMethod("applianceService.DeleteAppliance", "applianceID", id)
	return nil
}

// SetMaintenance toggles AVAILABLE and MAINTENANCE. It is refused while a rental
// holds the appliance and never writes RENTED.
func (s *applianceService) SetMaintenance(ctx context.Context, actor domain.Actor, id string, maintenance bool) (*domain.Appliance, error) {
	logger.EnterMethod("applianceService.SetMaintenance", "providerID", actor.UserID, "applianceID", id, "maintenance", maintenance)
	if err := requireProvider(actor); err != nil {
		logger.ExitMethodWithError("applianceService.SetMaintenance", err)
		return nil, err
	}
	from, to := domain.ApplianceStatusMaintenance, domain.ApplianceStatusAvailable
	if maintenance {
		from, to = domain.ApplianceStatusAvailable, domain.ApplianceStatusMaintenance
	}

	var result *domain.Appliance
	err := runTx(ctx, s.tx, s.cfg.TxTimeout, "appliance.maintenance", func(ctx context.Context, tx repository.Tx) error {
		a, err := ownedAppliance(ctx, tx.Appliances(), actor, id, true)
		if err != nil {
			return err
		}
		if a.Status == to {
			result = a
			return nil
		}
		holding, err := tx.Rentals().CountHoldingByAppliance(ctx, a.ID)
		if err != nil {
			return err
		}
		if holding > 0 || a.Status == domain.ApplianceStatusRented {
			return fmt.Errorf("%w: appliance %s has an open rental", domain.ErrConflict, a.ID)
		}
		if err := tx.Appliances().UpdateStatus(ctx, a.ID, from, to); err != nil {
			return err
		}
		a.Status = to
		result = a
		return nil
	}, attribute.String("appliance.id", id), attribute.Bool("appliance.maintenance", maintenance))
	if err != nil {
		logger.ExitMethodWithError("applianceService.SetMaintenance", err, "applianceID", id)
		return nil, err
	}
	s.invalidate(ctx)
	logger.ExitMethod("applianceService.SetMaintenance", "applianceID", id, "status", result.Status)
	return result, nil
}

func (s *applianceService) ListMyAppliances(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Appliance, int32, error) {
	if err := requireProvider(actor); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.applianceRepo.ListByProvider(ctx, actor.UserID, page, pageSize)
}

func (s *applianceService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate listing cache", "error", err)
	}
}
