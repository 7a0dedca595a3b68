package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
)

func (h *Handler) ListAppliances(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	minPrice, err := queryInt64Ptr(r, "min_price")
	if err != nil {
		writeError(w, r, err)
		return
	}
	maxPrice, err := queryInt64Ptr(r, "max_price")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	listings, total, err := h.svc.Catalog.SearchAppliances(r.Context(), domain.ApplianceFilter{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		MinDaily:   minPrice,
		MaxDaily:   maxPrice,
		Brands:     queryList(r, "brands"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(listings, total, page, pageSize))
}

func (h *Handler) ListPopular(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Catalog.ListPopular(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(listings)})
}

func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Catalog.ListFeatured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(listings)})
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.svc.Catalog.ListBrands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brands": nonNil(brands)})
}

func (h *Handler) GetAppliance(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Catalog.GetAppliance(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// QuoteAppliance prices a date range without booking it.
func (h *Handler) QuoteAppliance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quote, err := h.svc.Catalog.Quote(r.Context(), pathID(r), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, total, err := h.svc.Review.ListReviews(r.Context(), pathID(r), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(reviews, total, page, pageSize))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int32  `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	review, err := h.svc.Review.CreateReview(r.Context(), ActorFromContext(r.Context()), pathID(r), req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, total, err := h.svc.Category.ListCategories(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(categories, total, page, pageSize))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Category.GetCategory(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
