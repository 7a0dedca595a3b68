package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

type authService struct {
	userRepo     repository.UserRepository
	tokens       security.TokenManager
	accessExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, accessExpiry time.Duration) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       tokens,
		accessExpiry: accessExpiry,
	}
}

func validateRegistration(req *domain.RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return domain.Validationf("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if req.Name == "" {
		return domain.Validationf("name is required")
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}
	switch req.Role {
	case domain.RoleUser:
	case domain.RoleProvider:
		if strings.TrimSpace(req.BusinessName) == "" {
			return domain.Validationf("business name is required for providers")
		}
		if req.BusinessAddress.Street == "" || req.BusinessAddress.City == "" {
			return domain.Validationf("business address is required for providers")
		}
	default:
		return domain.Validationf("role must be USER or PROVIDER")
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Register", "email", req.Email, "role", req.Role)
	if err := validateRegistration(&req); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "reason", "invalid request")
		return nil, nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		err := fmt.Errorf("%w: email %s is already registered", domain.ErrDuplicate, req.Email)
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	} else if !errors.Is(err, domain.ErrNotFound) {
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
	}
	if req.Role == domain.RoleProvider {
		user.BusinessName = strings.TrimSpace(req.BusinessName)
		user.BusinessAddress = req.BusinessAddress
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", req.Email)
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Login", "email", email)
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "reason", "unknown email")
			return nil, nil, ErrInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err)
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "reason", "password mismatch")
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err)
		return nil, nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, security.ErrWrongTokenType)
	}

	// Reload so role changes made by an administrator take effect.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, nil
}
