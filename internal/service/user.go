package service

import (
	"context"
	"fmt"
	"strings"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, actor.UserID)
}

func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, domain.Validationf("name cannot be empty")
		}
		user.Name = name
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, actor domain.Actor, current, next string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if len(next) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.Validationf("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, actor.UserID, string(hash))
}

func (s *userService) UpdatePushToken(ctx context.Context, actor domain.Actor, token string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return s.userRepo.UpdatePushToken(ctx, actor.UserID, strings.TrimSpace(token))
}

func (s *userService) GetProviderProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if err := requireProvider(actor); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, actor.UserID)
}

func (s *userService) UpdateProviderProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error) {
	if err := requireProvider(actor); err != nil {
		return nil, err
	}
	if upd.BusinessName != nil && strings.TrimSpace(*upd.BusinessName) == "" {
		return nil, domain.Validationf("business name cannot be empty")
	}
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleProvider {
		return nil, fmt.Errorf("%w: account is not a provider", domain.ErrForbidden)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.BusinessName != nil {
		user.BusinessName = strings.TrimSpace(*upd.BusinessName)
	}
	if upd.BusinessAddress != nil {
		user.BusinessAddress = *upd.BusinessAddress
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
