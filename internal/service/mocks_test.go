package service

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/payment"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePushToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) ListRecent(ctx context.Context, limit int32) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) RefreshProviderRatings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCategoryRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCategoryRepo) List(ctx context.Context, search string, activeOnly bool, page, pageSize int32) ([]domain.Category, int32, error) {
	args := m.Called(ctx, search, activeOnly, page, pageSize)
	return args.Get(0).([]domain.Category), args.Get(1).(int32), args.Error(2)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) Add(ctx context.Context, item *domain.CartItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}
func (m *MockCartRepo) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartItem), args.Error(1)
}
func (m *MockCartRepo) Remove(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
func (m *MockCartRepo) RemoveAppliance(ctx context.Context, userID, applianceID string) error {
	args := m.Called(ctx, userID, applianceID)
	return args.Error(0)
}
func (m *MockCartRepo) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockStatsRepo
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) Counts(ctx context.Context) (*domain.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlatformStats), args.Error(1)
}
func (m *MockStatsRepo) PopularCategories(ctx context.Context, limit int32) ([]domain.CategoryCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRentalRepo) CountHoldingByAppliance(ctx context.Context, applianceID string) (int32, error) {
	args := m.Called(ctx, applianceID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentalRepo) FindCompletedForReview(ctx context.Context, userID, applianceID string) (*domain.Rental, error) {
	args := m.Called(ctx, userID, applianceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByRenter(ctx context.Context, userID string, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListByProvider(ctx context.Context, providerID string, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, providerID, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID, title, message string, attrs map[string]string) {
	m.Called(ctx, userID, title, message, attrs)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, amount int64, metadata map[string]string) (*payment.Intent, error) {
	args := m.Called(ctx, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}
func (m *MockGateway) GetPayment(ctx context.Context, intentID string) (*payment.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	args := m.Called(ctx, toEmail, toName, subject, plainText, htmlContent)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)
	return args.Error(0)
}
