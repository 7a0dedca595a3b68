package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/security"

	"github.com/gorilla/mux"
)

// AuthMiddleware enforces the security level declared for the matched route
// and stores the caller in the request context.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routeName := ""
		if route := mux.CurrentRoute(r); route != nil {
			routeName = route.GetName()
		}
		level := config.GetSecurityLevel(routeName)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err))
			return
		}
		if err := checkSecurityLevel(level, claims); err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), claims.Actor(), token)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: authorization token is not provided", domain.ErrUnauthorized)
	}
	token := header
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	return strings.TrimSpace(token), nil
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.UserClaims) error {
	if level == config.SecurityRefresh {
		if claims.Type != security.TokenTypeRefresh {
			return fmt.Errorf("%w: refresh token required", domain.ErrUnauthorized)
		}
		return nil
	}
	if claims.Type != security.TokenTypeAccess {
		return fmt.Errorf("%w: access token required", domain.ErrUnauthorized)
	}
	switch level {
	case config.SecurityProvider:
		if claims.Role != domain.RoleProvider {
			return fmt.Errorf("%w: provider role required", domain.ErrForbidden)
		}
	case config.SecurityAdmin:
		if claims.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
		}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// RecoveryMiddleware turns a panicking handler into a 500 response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Panic recovered", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
