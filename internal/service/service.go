package service

import (
	"context"
	"io"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/payment"
	"appliance-rental-backend/internal/utils"
)

// Every operation takes the authenticated caller explicitly as a domain.Actor.

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*TokenPair, error)
}

type UserService interface {
	GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, actor domain.Actor, current, next string) error
	UpdatePushToken(ctx context.Context, actor domain.Actor, token string) error
	GetProviderProfile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProviderProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error)
}

// ApplianceService is the provider-facing inventory API.
type ApplianceService interface {
	CreateAppliance(ctx context.Context, actor domain.Actor, a *domain.Appliance) (*domain.Appliance, error)
	UpdateAppliance(ctx context.Context, actor domain.Actor, id string, a *domain.Appliance) (*domain.Appliance, error)
	DeleteAppliance(ctx context.Context, actor domain.Actor, id string) error
	SetMaintenance(ctx context.Context, actor domain.Actor, id string, maintenance bool) (*domain.Appliance, error)
	ListMyAppliances(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Appliance, int32, error)
}

// CatalogService is the public browsing API.
type CatalogService interface {
	SearchAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error)
	GetAppliance(ctx context.Context, id string) (*domain.Appliance, error)
	ListPopular(ctx context.Context) ([]domain.ApplianceListing, error)
	ListFeatured(ctx context.Context) ([]domain.ApplianceListing, error)
	ListBrands(ctx context.Context) ([]string, error)
	Quote(ctx context.Context, applianceID, startDate, endDate string) (*utils.RentalCostBreakdown, error)
	WarmCache(ctx context.Context) error
}

type CategoryService interface {
	ListCategories(ctx context.Context, search string, page, pageSize int32) ([]domain.Category, int32, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, actor domain.Actor, c *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, actor domain.Actor, id string, c *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, id string) error
}

// RentalService is the transaction coordinator for the rental lifecycle.
type RentalService interface {
	CreateRental(ctx context.Context, actor domain.Actor, req domain.CreateRentalRequest) (*domain.Rental, error)
	ExecuteTransition(ctx context.Context, actor domain.Actor, rentalID string, target domain.RentalStatus) (*domain.Rental, error)
	CancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	ApproveRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	RejectRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	ActivateRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	CompleteRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	ProviderCancelRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)
	ListMyRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error)
	ListProviderRentals(ctx context.Context, actor domain.Actor, filter domain.RentalFilter) ([]domain.Rental, int32, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, actor domain.Actor, applianceID string, rating int32, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, applianceID string, page, pageSize int32) ([]domain.Review, int32, error)
}

type CartService interface {
	GetCart(ctx context.Context, actor domain.Actor) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, actor domain.Actor, applianceID string) (*domain.CartItem, bool, error)
	RemoveFromCart(ctx context.Context, actor domain.Actor, itemID string) error
	ClearCart(ctx context.Context, actor domain.Actor) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, notificationID string) error
}

// Notifier delivers lifecycle events. Delivery is best-effort: failures are
// logged and never returned.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message string, attrs map[string]string)
}

type AdminService interface {
	ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter) ([]domain.User, int32, error)
	UpdateUser(ctx context.Context, actor domain.Actor, userID string, upd domain.AdminUserUpdate) (*domain.User, error)
	ListProviders(ctx context.Context, actor domain.Actor, filter domain.UserFilter) ([]domain.User, int32, error)
	VerifyProvider(ctx context.Context, actor domain.Actor, providerID string, verified bool) (*domain.User, error)
	GetAnalytics(ctx context.Context, actor domain.Actor) (*domain.PlatformStats, error)
}

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, actor domain.Actor, applianceID, startDate, endDate string) (*payment.Intent, *utils.RentalCostBreakdown, error)
}

// UploadResult describes a stored or presigned object.
type UploadResult struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	UploadURL string `json:"upload_url,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type ImageService interface {
	Upload(ctx context.Context, actor domain.Actor, filename, contentType string, size int64, r io.Reader) (*UploadResult, error)
	PresignUpload(ctx context.Context, actor domain.Actor, filename, contentType string) (*UploadResult, error)
}

type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error
}

type PushService interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
