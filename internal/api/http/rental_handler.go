package http

import (
	"context"
	"net/http"
	"strings"

	"appliance-rental-backend/internal/domain"
)

type createRentalRequest struct {
	ApplianceID      string               `json:"appliance_id"`
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	PaymentMethod    domain.PaymentMethod `json:"payment_method"`
	PaymentReference string               `json:"payment_reference"`
	DeliveryAddress  domain.Address       `json:"delivery_address"`
	DeliveryTime     string               `json:"delivery_time"`
}

func (h *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.svc.Rental.CreateRental(r.Context(), ActorFromContext(r.Context()), domain.CreateRentalRequest{
		ApplianceID:      req.ApplianceID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryTime:     req.DeliveryTime,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *Handler) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.svc.Rental.GetRental(r.Context(), ActorFromContext(r.Context()), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handler) ListMyRentals(w http.ResponseWriter, r *http.Request) {
	filter, err := rentalFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, total, err := h.svc.Rental.ListMyRentals(r.Context(), ActorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(rentals, total, filter.Page, filter.PageSize))
}

func (h *Handler) ListProviderRentals(w http.ResponseWriter, r *http.Request) {
	filter, err := rentalFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentals, total, err := h.svc.Rental.ListProviderRentals(r.Context(), ActorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(rentals, total, filter.Page, filter.PageSize))
}

// TransitionRental moves a rental to the status named in the body. The
// coordinator decides whether the caller may perform that transition.
func (h *Handler) TransitionRental(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	target, err := domain.ParseRentalStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.svc.Rental.ExecuteTransition(r.Context(), ActorFromContext(r.Context()), pathID(r), target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type rentalAction func(ctx context.Context, actor domain.Actor, rentalID string) (*domain.Rental, error)

func (h *Handler) runRentalAction(w http.ResponseWriter, r *http.Request, action rentalAction) {
	rental, err := action(r.Context(), ActorFromContext(r.Context()), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handler) CancelRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.CancelRental)
}

func (h *Handler) ApproveRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.ApproveRental)
}

func (h *Handler) RejectRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.RejectRental)
}

func (h *Handler) ActivateRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.ActivateRental)
}

func (h *Handler) CompleteRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.CompleteRental)
}

func (h *Handler) ProviderCancelRental(w http.ResponseWriter, r *http.Request) {
	h.runRentalAction(w, r, h.svc.Rental.ProviderCancelRental)
}
