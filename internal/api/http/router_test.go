package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/security"
	"appliance-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	handler   http.Handler
	tokens    security.TokenManager
	rentals   *MockRentalService
	catalog   *MockCatalogService
	auth      *MockAuthService
	appliance *MockApplianceService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		tokens:    security.NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour),
		rentals:   new(MockRentalService),
		catalog:   new(MockCatalogService),
		auth:      new(MockAuthService),
		appliance: new(MockApplianceService),
	}
	f.handler = NewRouter(RouterConfig{
		Services: Services{
			Rental:    f.rentals,
			Catalog:   f.catalog,
			Auth:      f.auth,
			Appliance: f.appliance,
		},
		Tokens:      f.tokens,
		Storage:     config.StorageConfig{MaxFileSize: 1, AllowedTypes: []string{"image/png"}},
		ServiceName: "test",
	})
	return f
}

func (f *routerFixture) token(t *testing.T, userID string, role domain.Role, refresh bool) string {
	t.Helper()
	user := &domain.User{ID: userID, Email: userID + "@example.com", Role: role}
	var (
		tok string
		err error
	)
	if refresh {
		tok, err = f.tokens.GenerateRefreshToken(user)
	} else {
		tok, err = f.tokens.GenerateAccessToken(user)
	}
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Kind
}

func TestRouter_SecurityLevels(t *testing.T) {
	f := newRouterFixture(t)
	f.catalog.On("ListBrands", mock.Anything).Return([]string{"Bosch"}, nil)
	f.rentals.On("GetRental", mock.Anything, mock.Anything, "rental-1").Return(&domain.Rental{ID: "rental-1"}, nil)
	f.appliance.On("ListMyAppliances", mock.Anything, mock.Anything, int32(1), int32(20)).
		Return([]domain.Appliance{}, int32(0), nil)

	userToken := f.token(t, "user-1", domain.RoleUser, false)
	providerToken := f.token(t, "provider-1", domain.RoleProvider, false)
	refreshToken := f.token(t, "user-1", domain.RoleUser, true)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		kind   string
	}{
		{"public route without token", http.MethodGet, "/api/v1/appliances/brands", "", http.StatusOK, ""},
		{"access route without token", http.MethodGet, "/api/v1/rentals/rental-1", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"access route with garbage token", http.MethodGet, "/api/v1/rentals/rental-1", "not-a-jwt", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"access route with refresh token", http.MethodGet, "/api/v1/rentals/rental-1", refreshToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"access route with access token", http.MethodGet, "/api/v1/rentals/rental-1", userToken, http.StatusOK, ""},
		{"provider route as user", http.MethodGet, "/api/v1/provider/appliances", userToken, http.StatusForbidden, "FORBIDDEN"},
		{"provider route as provider", http.MethodGet, "/api/v1/provider/appliances", providerToken, http.StatusOK, ""},
		{"admin route as provider", http.MethodGet, "/api/v1/admin/analytics", providerToken, http.StatusForbidden, "FORBIDDEN"},
		{"refresh route with access token", http.MethodPost, "/api/v1/auth/refresh", userToken, http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, rec.Code)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, decodeErrorKind(t, rec))
			}
		})
	}
}

func TestRouter_ActorComesFromToken(t *testing.T) {
	f := newRouterFixture(t)
	want := domain.Actor{UserID: "user-1", Role: domain.RoleUser}
	f.rentals.On("CancelRental", mock.Anything, want, "rental-1").
		Return(&domain.Rental{ID: "rental-1", Status: domain.RentalStatusCancelled}, nil)

	rec := f.do(http.MethodPost, "/api/v1/rentals/rental-1/cancel", f.token(t, "user-1", domain.RoleUser, false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.RentalStatusCancelled, got.Status)
	f.rentals.AssertExpectations(t)
}

func TestRouter_Refresh(t *testing.T) {
	f := newRouterFixture(t)
	refreshToken := f.token(t, "user-1", domain.RoleUser, true)
	f.auth.On("RefreshToken", mock.Anything, refreshToken).
		Return(&service.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil)

	rec := f.do(http.MethodPost, "/api/v1/auth/refresh", refreshToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.Equal(t, "a", pair.AccessToken)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeErrorKind(t, rec))
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		kind   string
		status int
	}{
		{domain.ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
		{domain.ErrForbidden, "FORBIDDEN", http.StatusForbidden},
		{fmt.Errorf("rental x: %w", domain.ErrNotFound), "NOT_FOUND", http.StatusNotFound},
		{&domain.TransitionError{From: domain.RentalStatusCompleted, To: domain.RentalStatusActive}, "INVALID_TRANSITION", http.StatusBadRequest},
		{domain.ErrApplianceUnavailable, "APPLIANCE_UNAVAILABLE", http.StatusConflict},
		{domain.ErrNotCancellable, "NOT_CANCELLABLE", http.StatusBadRequest},
		{domain.ErrConflict, "CONFLICT", http.StatusConflict},
		{domain.Validationf("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{domain.ErrDuplicate, "DUPLICATE", http.StatusConflict},
		{domain.ErrTimeout, "TIMEOUT", http.StatusServiceUnavailable},
		{domain.ErrPaymentUnavailable, "PAYMENT_UNAVAILABLE", http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), "INTERNAL", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			kind, status := classify(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	writeError(rec, req, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
