package http

import (
	"net/http"
	"strings"

	"appliance-rental-backend/internal/domain"
)

type applianceRequest struct {
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	CategoryID     string                `json:"category_id"`
	Images         []string              `json:"images"`
	Specifications domain.Specifications `json:"specifications"`
	Pricing        domain.Pricing        `json:"pricing"`
}

func (req applianceRequest) toAppliance() *domain.Appliance {
	return &domain.Appliance{
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Images:         req.Images,
		Specifications: req.Specifications,
		Pricing:        req.Pricing,
	}
}

func (h *Handler) GetProviderProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.User.GetProviderProfile(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProviderProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.User.UpdateProviderProfile(r.Context(), ActorFromContext(r.Context()), req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ListMyAppliances(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	appliances, total, err := h.svc.Appliance.ListMyAppliances(r.Context(), ActorFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(appliances, total, page, pageSize))
}

func (h *Handler) CreateAppliance(w http.ResponseWriter, r *http.Request) {
	var req applianceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.svc.Appliance.CreateAppliance(r.Context(), ActorFromContext(r.Context()), req.toAppliance())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAppliance(w http.ResponseWriter, r *http.Request) {
	var req applianceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.svc.Appliance.UpdateAppliance(r.Context(), ActorFromContext(r.Context()), pathID(r), req.toAppliance())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAppliance(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Appliance.DeleteAppliance(r.Context(), ActorFromContext(r.Context()), pathID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetApplianceStatus toggles maintenance. RENTED is owned by the rental
// lifecycle and cannot be set here.
func (h *Handler) SetApplianceStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var maintenance bool
	switch domain.ApplianceStatus(strings.ToUpper(strings.TrimSpace(req.Status))) {
	case domain.ApplianceStatusMaintenance:
		maintenance = true
	case domain.ApplianceStatusAvailable:
	default:
		writeError(w, r, domain.Validationf("status must be AVAILABLE or MAINTENANCE"))
		return
	}
	a, err := h.svc.Appliance.SetMaintenance(r.Context(), ActorFromContext(r.Context()), pathID(r), maintenance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
