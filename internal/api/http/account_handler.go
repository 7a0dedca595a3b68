package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
)

type profileRequest struct {
	Name            *string         `json:"name"`
	Phone           *string         `json:"phone"`
	Address         *domain.Address `json:"address"`
	BusinessName    *string         `json:"business_name"`
	BusinessAddress *domain.Address `json:"business_address"`
}

func (p profileRequest) toUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:            p.Name,
		Phone:           p.Phone,
		Address:         p.Address,
		BusinessName:    p.BusinessName,
		BusinessAddress: p.BusinessAddress,
	}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.User.GetProfile(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.User.UpdateProfile(r.Context(), ActorFromContext(r.Context()), req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.User.ChangePassword(r.Context(), ActorFromContext(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.User.UpdatePushToken(r.Context(), ActorFromContext(r.Context()), req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, total, err := h.svc.Notification.GetNotifications(r.Context(), ActorFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(notes, total, page, pageSize))
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notification.MarkAsRead(r.Context(), ActorFromContext(r.Context()), pathID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Cart.GetCart(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplianceID string `json:"appliance_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, added, err := h.svc.Cart.AddToCart(r.Context(), ActorFromContext(r.Context()), req.ApplianceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, item)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cart.RemoveFromCart(r.Context(), ActorFromContext(r.Context()), pathID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cart.ClearCart(r.Context(), ActorFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
