package repository

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
)

// Repositories return domain.ErrNotFound when a row is missing and
// domain.ErrDuplicate on a uniqueness violation.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdatePushToken(ctx context.Context, id, token string) error
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int32, error)
	ListRecent(ctx context.Context, limit int32) ([]domain.User, error)
	RefreshProviderRatings(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, activeOnly bool, page, pageSize int32) ([]domain.Category, int32, error)
}

type ApplianceRepository interface {
	Create(ctx context.Context, a *domain.Appliance) error
	GetByID(ctx context.Context, id string) (*domain.Appliance, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Appliance, error)
	Update(ctx context.Context, a *domain.Appliance) error
	// UpdateStatus writes the availability ledger. When expected is non-empty the
	// write only happens if the current status matches, otherwise ErrConflict.
	UpdateStatus(ctx context.Context, id string, expected, status domain.ApplianceStatus) error
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int32) error
	Delete(ctx context.Context, id string) error
	ListByProvider(ctx context.Context, providerID string, page, pageSize int32) ([]domain.Appliance, int32, error)
	Search(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error)
	ListPopular(ctx context.Context, limit int32) ([]domain.ApplianceListing, error)
	ListFeatured(ctx context.Context, limit int32) ([]domain.ApplianceListing, error)
	ListBrands(ctx context.Context) ([]string, error)
}

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, r *domain.Rental) error
	CountHoldingByAppliance(ctx context.Context, applianceID string) (int32, error)
	FindCompletedForReview(ctx context.Context, userID, applianceID string) (*domain.Rental, error)
	ListByRenter(ctx context.Context, userID string, filter domain.RentalFilter) ([]domain.Rental, int32, error)
	ListByProvider(ctx context.Context, providerID string, filter domain.RentalFilter) ([]domain.Rental, int32, error)
	ListRecent(ctx context.Context, limit int32) ([]domain.Rental, error)
	ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Rental, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByAppliance(ctx context.Context, applianceID string, page, pageSize int32) ([]domain.Review, int32, error)
	RatingSummary(ctx context.Context, applianceID string) (float64, int32, error)
}

type CartRepository interface {
	Add(ctx context.Context, item *domain.CartItem) (bool, error)
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	Remove(ctx context.Context, userID, itemID string) error
	RemoveAppliance(ctx context.Context, userID, applianceID string) error
	Clear(ctx context.Context, userID string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

type StatsRepository interface {
	Counts(ctx context.Context) (*domain.PlatformStats, error)
	PopularCategories(ctx context.Context, limit int32) ([]domain.CategoryCount, error)
}

// Tx exposes the repositories bound to one atomic unit of work.
type Tx interface {
	Appliances() ApplianceRepository
	Rentals() RentalRepository
	Reviews() ReviewRepository
}

// Transactor runs fn inside a serializable transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
