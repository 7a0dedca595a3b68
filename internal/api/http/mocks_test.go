package http

import (
	"context"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/service"
	"appliance-rental-backend/internal/utils"

	"github.com/stretchr/testify/mock"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) rental(args mock.Arguments) (*domain.Rental, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) CreateRental(ctx context.Context, actor domain.Actor, req domain.CreateRentalRequest) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, req))
}
func (m *MockRentalService) ExecuteTransition(ctx context.Context, actor domain.Actor, rentalID string, target domain.RentalStatus) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID, target))
}
func (m *MockRentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) ApproveRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) RejectRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) ActivateRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) CompleteRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) ProviderCancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error) {
	return m.rental(m.Called(ctx, actor, rentalID))
}
func (m *MockRentalService) ListMyRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) ListProviderRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) SearchAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ApplianceListing), args.Get(1).(int32), args.Error(2)
}
func (m *MockCatalogService) GetAppliance(ctx context.Context, id string) (*domain.Appliance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appliance), args.Error(1)
}
func (m *MockCatalogService) ListPopular(ctx context.Context) ([]domain.ApplianceListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ApplianceListing), args.Error(1)
}
func (m *MockCatalogService) ListFeatured(ctx context.Context) ([]domain.ApplianceListing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ApplianceListing), args.Error(1)
}
func (m *MockCatalogService) ListBrands(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockCatalogService) Quote(ctx context.Context, applianceID, startDate, endDate string) (*utils.RentalCostBreakdown, error) {
	args := m.Called(ctx, applianceID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.RentalCostBreakdown), args.Error(1)
}
func (m *MockCatalogService) WarmCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*service.TokenPair), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*service.TokenPair), args.Error(2)
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refresh string) (*service.TokenPair, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

// MockApplianceService
type MockApplianceService struct {
	mock.Mock
}

func (m *MockApplianceService) appliance(args mock.Arguments) (*domain.Appliance, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appliance), args.Error(1)
}

func (m *MockApplianceService) CreateAppliance(ctx context.Context, actor domain.Actor, a *domain.Appliance) (*domain.Appliance, error) {
	return m.appliance(m.Called(ctx, actor, a))
}
func (m *MockApplianceService) UpdateAppliance(ctx context.Context, actor domain.Actor, id string, a *domain.Appliance) (*domain.Appliance, error) {
	return m.appliance(m.Called(ctx, actor, id, a))
}
func (m *MockApplianceService) DeleteAppliance(ctx context.Context, actor domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}
func (m *MockApplianceService) SetMaintenance(ctx context.Context, actor domain.Actor, id string, maintenance bool) (*domain.Appliance, error) {
	return m.appliance(m.Called(ctx, actor, id, maintenance))
}
func (m *MockApplianceService) ListMyAppliances(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Appliance, int32, error) {
	args := m.Called(ctx, actor, page, pageSize)
	return args.Get(0).([]domain.Appliance), args.Get(1).(int32), args.Error(2)
}
