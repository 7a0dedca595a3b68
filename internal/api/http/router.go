package http

import (
	"net/http"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/security"
	"appliance-rental-backend/internal/service"
	"appliance-rental-backend/internal/storage"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Appliance    service.ApplianceService
	Catalog      service.CatalogService
	Category     service.CategoryService
	Rental       service.RentalService
	Review       service.ReviewService
	Cart         service.CartService
	Notification service.NotificationService
	Admin        service.AdminService
	Payment      service.PaymentService
	Image        service.ImageService
}

type RouterConfig struct {
	Services Services
	Tokens   security.TokenManager
	// Files is set when images are kept on the local filesystem; it enables the
	// storage upload and download routes.
	Files       storage.LocalFiles
	Storage     config.StorageConfig
	ServiceName string
}

type Handler struct {
	svc     Services
	storage config.StorageConfig
}

// NewRouter builds the REST API. Every route is named; the name selects its
// security level in config.RouteSecurityConfig.
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{svc: cfg.Services, storage: cfg.Storage}
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware, NewAuthMiddleware(cfg.Tokens).Handler)
	router.NotFoundHandler = http.HandlerFunc(h.notFound)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet).Name("health")
	if cfg.Files != nil {
		RegisterMockStorageRoutes(router, cfg.Files, cfg.Storage.AllowedTypes)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost).Name("auth.register")
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost).Name("auth.refresh")

	api.HandleFunc("/appliances", h.ListAppliances).Methods(http.MethodGet).Name("appliances.list")
	api.HandleFunc("/appliances/popular", h.ListPopular).Methods(http.MethodGet).Name("appliances.popular")
	api.HandleFunc("/appliances/featured", h.ListFeatured).Methods(http.MethodGet).Name("appliances.featured")
	api.HandleFunc("/appliances/brands", h.ListBrands).Methods(http.MethodGet).Name("appliances.brands")
	api.HandleFunc("/appliances/{id}", h.GetAppliance).Methods(http.MethodGet).Name("appliances.get")
	api.HandleFunc("/appliances/{id}/quote", h.QuoteAppliance).Methods(http.MethodGet).Name("appliances.quote")
	api.HandleFunc("/appliances/{id}/reviews", h.ListReviews).Methods(http.MethodGet).Name("appliances.reviews")
	api.HandleFunc("/appliances/{id}/reviews", h.CreateReview).Methods(http.MethodPost).Name("reviews.create")
	api.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet).Name("categories.list")
	api.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet).Name("categories.get")

	api.HandleFunc("/users/me", h.GetProfile).Methods(http.MethodGet).Name("users.me")
	api.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPut).Name("users.update")
	api.HandleFunc("/users/me/password", h.ChangePassword).Methods(http.MethodPut).Name("users.password")
	api.HandleFunc("/users/me/push-token", h.UpdatePushToken).Methods(http.MethodPut).Name("users.push_token")
	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet).Name("notifications.list")
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPatch).Name("notifications.read")

	api.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet).Name("cart.get")
	api.HandleFunc("/cart", h.AddToCart).Methods(http.MethodPost).Name("cart.add")
	api.HandleFunc("/cart", h.ClearCart).Methods(http.MethodDelete).Name("cart.clear")
	api.HandleFunc("/cart/{id}", h.RemoveFromCart).Methods(http.MethodDelete).Name("cart.remove")

	api.HandleFunc("/payments/intent", h.CreatePaymentIntent).Methods(http.MethodPost).Name("payments.intent")
	api.HandleFunc("/uploads", h.UploadImage).Methods(http.MethodPost).Name("uploads.create")
	api.HandleFunc("/uploads/presign", h.PresignUpload).Methods(http.MethodPost).Name("uploads.presign")

	api.HandleFunc("/rentals", h.CreateRental).Methods(http.MethodPost).Name("rentals.create")
	api.HandleFunc("/rentals", h.ListMyRentals).Methods(http.MethodGet).Name("rentals.list")
	api.HandleFunc("/rentals/{id}", h.GetRental).Methods(http.MethodGet).Name("rentals.get")
	api.HandleFunc("/rentals/{id}", h.TransitionRental).Methods(http.MethodPatch).Name("rentals.transition")
	api.HandleFunc("/rentals/{id}/cancel", h.CancelRental).Methods(http.MethodPost).Name("rentals.cancel")
	api.HandleFunc("/rentals/{id}/approve", h.ApproveRental).Methods(http.MethodPost).Name("rentals.approve")
	api.HandleFunc("/rentals/{id}/reject", h.RejectRental).Methods(http.MethodPost).Name("rentals.reject")
	api.HandleFunc("/rentals/{id}/activate", h.ActivateRental).Methods(http.MethodPost).Name("rentals.activate")
	api.HandleFunc("/rentals/{id}/complete", h.CompleteRental).Methods(http.MethodPost).Name("rentals.complete")
	api.HandleFunc("/rentals/{id}/provider-cancel", h.ProviderCancelRental).Methods(http.MethodPost).Name("rentals.provider_cancel")

	api.HandleFunc("/provider/profile", h.GetProviderProfile).Methods(http.MethodGet).Name("provider.profile.get")
	api.HandleFunc("/provider/profile", h.UpdateProviderProfile).Methods(http.MethodPut).Name("provider.profile.update")
	api.HandleFunc("/provider/rentals", h.ListProviderRentals).Methods(http.MethodGet).Name("provider.rentals.list")
	api.HandleFunc("/provider/appliances", h.ListMyAppliances).Methods(http.MethodGet).Name("provider.appliances.list")
	api.HandleFunc("/provider/appliances", h.CreateAppliance).Methods(http.MethodPost).Name("provider.appliances.create")
	api.HandleFunc("/provider/appliances/{id}", h.UpdateAppliance).Methods(http.MethodPut).Name("provider.appliances.update")
	api.HandleFunc("/provider/appliances/{id}", h.DeleteAppliance).Methods(http.MethodDelete).Name("provider.appliances.delete")
	api.HandleFunc("/provider/appliances/{id}/status", h.SetApplianceStatus).Methods(http.MethodPatch).Name("provider.appliances.status")

	api.HandleFunc("/admin/users", h.AdminListUsers).Methods(http.MethodGet).Name("admin.users.list")
	api.HandleFunc("/admin/users/{id}", h.AdminUpdateUser).Methods(http.MethodPatch).Name("admin.users.update")
	api.HandleFunc("/admin/providers", h.AdminListProviders).Methods(http.MethodGet).Name("admin.providers.list")
	api.HandleFunc("/admin/providers/{id}/verify", h.AdminVerifyProvider).Methods(http.MethodPatch).Name("admin.providers.verify")
	api.HandleFunc("/admin/categories", h.AdminCreateCategory).Methods(http.MethodPost).Name("admin.categories.create")
	api.HandleFunc("/admin/categories/{id}", h.AdminUpdateCategory).Methods(http.MethodPut).Name("admin.categories.update")
	api.HandleFunc("/admin/categories/{id}", h.AdminDeleteCategory).Methods(http.MethodDelete).Name("admin.categories.delete")
	api.HandleFunc("/admin/analytics", h.AdminAnalytics).Methods(http.MethodGet).Name("admin.analytics")

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "appliance-rental-backend"
	}
	return otelhttp.NewHandler(router, serviceName)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{Kind: "NOT_FOUND", Message: "route not found"}})
}
