package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/service"
)

type registerRequest struct {
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	Address         domain.Address `json:"address"`
	Role            domain.Role    `json:"role"`
	BusinessName    string         `json:"business_name"`
	BusinessAddress domain.Address `json:"business_address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.svc.Auth.Register(r.Context(), domain.RegisterRequest{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		Role:            req.Role,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Tokens: tokens})
}

// Refresh exchanges the bearer refresh token for a new pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.svc.Auth.RefreshToken(r.Context(), tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}
