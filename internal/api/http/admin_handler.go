package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
)

func (h *Handler) userFilter(r *http.Request) (domain.UserFilter, error) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		return domain.UserFilter{}, err
	}
	verified, err := queryBoolPtr(r, "verified")
	if err != nil {
		return domain.UserFilter{}, err
	}
	q := r.URL.Query()
	return domain.UserFilter{
		Search:   q.Get("search"),
		Role:     domain.Role(q.Get("role")),
		Verified: verified,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := h.userFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, total, err := h.svc.Admin.ListUsers(r.Context(), ActorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(users, total, filter.Page, filter.PageSize))
}

func (h *Handler) AdminListProviders(w http.ResponseWriter, r *http.Request) {
	filter, err := h.userFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, total, err := h.svc.Admin.ListProviders(r.Context(), ActorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(users, total, filter.Page, filter.PageSize))
}

func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       *string      `json:"name"`
		Phone      *string      `json:"phone"`
		Role       *domain.Role `json:"role"`
		IsVerified *bool        `json:"is_verified"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Admin.UpdateUser(r.Context(), ActorFromContext(r.Context()), pathID(r), domain.AdminUserUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		Role:       req.Role,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) AdminVerifyProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsVerified bool `json:"is_verified"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Admin.VerifyProvider(r.Context(), ActorFromContext(r.Context()), pathID(r), req.IsVerified)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
}

func (req categoryRequest) toCategory() *domain.Category {
	c := &domain.Category{Name: req.Name, Description: req.Description, Image: req.Image, IsActive: true}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return c
}

func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Category.CreateCategory(r.Context(), ActorFromContext(r.Context()), req.toCategory())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Category.UpdateCategory(r.Context(), ActorFromContext(r.Context()), pathID(r), req.toCategory())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Category.DeleteCategory(r.Context(), ActorFromContext(r.Context()), pathID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.GetAnalytics(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
