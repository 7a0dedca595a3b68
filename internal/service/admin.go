package service

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
)

const (
	recentActivityLimit    int32 = 5
	popularCategoriesLimit int32 = 5
)

type adminService struct {
	userRepo   repository.UserRepository
	rentalRepo repository.RentalRepository
	statsRepo  repository.StatsRepository
	notifier   Notifier
}

func NewAdminService(
	userRepo repository.UserRepository,
	rentalRepo repository.RentalRepository,
	statsRepo repository.StatsRepository,
	notifier Notifier,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		rentalRepo: rentalRepo,
		statsRepo:  statsRepo,
		notifier:   notifier,
	}
}

func (s *adminService) ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter) ([]domain.User, int32, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	filter.Page, filter.PageSize = domain.NormalizePage(filter.Page, filter.PageSize)
	return s.userRepo.List(ctx, filter)
}

func (s *adminService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, upd domain.AdminUserUpdate) (*domain.User, error) {
	logger.EnterMethod("adminService.UpdateUser", "adminID", actor.UserID, "userID", userID)
	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("adminService.UpdateUser", err)
		return nil, err
	}
	if upd.Role != nil && !upd.Role.Valid() {
		err := domain.Validationf("unknown role %q", *upd.Role)
		logger.ExitMethodWithError("adminService.UpdateUser", err)
		return nil, err
	}
	if upd.Role != nil && userID == actor.UserID && *upd.Role != domain.RoleAdmin {
		err := domain.Validationf("administrators cannot demote themselves")
		logger.ExitMethodWithError("adminService.UpdateUser", err)
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.ExitMethodWithError("adminService.UpdateUser", err)
		return nil, err
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.IsVerified != nil {
		user.IsVerified = *upd.IsVerified
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("adminService.UpdateUser", err, "userID", userID)
		return nil, err
	}
	logger.ExitMethod("adminService.UpdateUser", "userID", userID)
	return user, nil
}

func (s *adminService) ListProviders(ctx context.Context, actor domain.Actor, filter domain.UserFilter) ([]domain.User, int32, error) {
	filter.Role = domain.RoleProvider
	return s.ListUsers(ctx, actor, filter)
}

func (s *adminService) VerifyProvider(ctx context.Context, actor domain.Actor, providerID string, verified bool) (*domain.User, error) {
	logger.EnterMethod("adminService.VerifyProvider", "adminID", actor.UserID, "providerID", providerID, "verified", verified)
	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("adminService.VerifyProvider", err)
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, providerID)
	if err != nil {
		logger.ExitMethodWithError("adminService.VerifyProvider", err)
		return nil, err
	}
	if user.Role != domain.RoleProvider {
		err := fmt.Errorf("provider %s: %w", providerID, domain.ErrNotFound)
		logger.ExitMethodWithError("adminService.VerifyProvider", err)
		return nil, err
	}
	user.IsVerified = verified
	if err := s.userRepo.Update(ctx, user); err != nil {
		logger.ExitMethodWithError("adminService.VerifyProvider", err)
		return nil, err
	}

	if verified {
		s.notifier.Notify(ctx, user.ID, "Account Verified", "Your provider account has been verified.",
			map[string]string{"type": "PROVIDER_VERIFIED"})
	}
	logger.ExitMethod("adminService.VerifyProvider", "providerID", providerID)
	return user, nil
}

func (s *adminService) GetAnalytics(ctx context.Context, actor domain.Actor) (*domain.PlatformStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if stats.RecentUsers, err = s.userRepo.ListRecent(ctx, recentActivityLimit); err != nil {
		return nil, err
	}
	if stats.RecentRentals, err = s.rentalRepo.ListRecent(ctx, recentActivityLimit); err != nil {
		return nil, err
	}
	if stats.PopularCategories, err = s.statsRepo.PopularCategories(ctx, popularCategoriesLimit); err != nil {
		return nil, err
	}
	return stats, nil
}
