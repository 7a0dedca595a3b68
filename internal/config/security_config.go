// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityRefresh                       // Refresh token required
	SecurityAccess                        // Access token required
	SecurityProvider                      // Access token with PROVIDER role
	SecurityAdmin                         // Access token with ADMIN role
)

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Health and mock storage - Public
	"health":           SecurityPublic,
	"storage.upload":   SecurityPublic,
	"storage.download": SecurityPublic,

	// Auth - Public
	"auth.register": SecurityPublic,
	"auth.login":    SecurityPublic,

	// Auth - Refresh Protected
	"auth.refresh": SecurityRefresh,

	// Catalog - Public
	"appliances.list":     SecurityPublic,
	"appliances.popular":  SecurityPublic,
	"appliances.featured": SecurityPublic,
	"appliances.brands":   SecurityPublic,
	"appliances.get":      SecurityPublic,
	"appliances.quote":    SecurityPublic,
	"appliances.reviews":  SecurityPublic,
	"categories.list":     SecurityPublic,
	"categories.get":      SecurityPublic,

	// Account - Access Protected
	"users.me":                SecurityAccess,
	"users.update":            SecurityAccess,
	"users.password":          SecurityAccess,
	"users.push_token":        SecurityAccess,
	"notifications.list":      SecurityAccess,
	"notifications.read":      SecurityAccess,
	"cart.get":                SecurityAccess,
	"cart.add":                SecurityAccess,
	"cart.remove":             SecurityAccess,
	"cart.clear":              SecurityAccess,
	"payments.intent":         SecurityAccess,
	"uploads.create":          SecurityAccess,
	"uploads.presign":         SecurityAccess,
	"reviews.create":          SecurityAccess,
	"rentals.create":          SecurityAccess,
	"rentals.list":            SecurityAccess,
	"rentals.get":             SecurityAccess,
	"rentals.cancel":          SecurityAccess,
	"rentals.transition":      SecurityAccess, // role checked by the coordinator
	"rentals.approve":         SecurityProvider,
	"rentals.reject":          SecurityProvider,
	"rentals.activate":        SecurityProvider,
	"rentals.complete":        SecurityProvider,
	"rentals.provider_cancel": SecurityProvider,

	// Provider - Provider Protected
	"provider.profile.get":       SecurityProvider,
	"provider.profile.update":    SecurityProvider,
	"provider.rentals.list":      SecurityProvider,
	"provider.appliances.list":   SecurityProvider,
	"provider.appliances.create": SecurityProvider,
	"provider.appliances.update": SecurityProvider,
	"provider.appliances.delete": SecurityProvider,
	"provider.appliances.status": SecurityProvider,

	// Admin - Admin Protected
	"admin.users.list":        SecurityAdmin,
	"admin.users.update":      SecurityAdmin,
	"admin.providers.list":    SecurityAdmin,
	"admin.providers.verify":  SecurityAdmin,
	"admin.categories.create": SecurityAdmin,
	"admin.categories.update": SecurityAdmin,
	"admin.categories.delete": SecurityAdmin,
	"admin.analytics":         SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to access token for unknown routes
	return SecurityAccess
}
