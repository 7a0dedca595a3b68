package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/payment"
	"appliance-rental-backend/internal/utils"
)

type paymentIntentResponse struct {
	Intent    *payment.Intent            `json:"intent"`
	Breakdown *utils.RentalCostBreakdown `json:"breakdown"`
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplianceID string `json:"appliance_id"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	intent, breakdown, err := h.svc.Payment.CreatePaymentIntent(r.Context(), ActorFromContext(r.Context()),
		req.ApplianceID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentIntentResponse{Intent: intent, Breakdown: breakdown})
}

// UploadImage accepts a multipart form with the image in the "file" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	limit := h.storage.MaxFileSize * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit+maxBodyBytes)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeError(w, r, domain.Validationf("invalid upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.Validationf("missing file field"))
		return
	}
	defer file.Close()

	result, err := h.svc.Image.Upload(r.Context(), ActorFromContext(r.Context()), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.svc.Image.PresignUpload(r.Context(), ActorFromContext(r.Context()), req.Filename, req.ContentType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
