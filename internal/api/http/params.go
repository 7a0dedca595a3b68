package http

import (
	"net/http"
	"strconv"
	"strings"

	"appliance-rental-backend/internal/domain"

	"github.com/gorilla/mux"
)

type pageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func newPage[T any](items []T, total, page, pageSize int32) pageResponse[T] {
	if items == nil {
		items = []T{}
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return pageResponse[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func queryInt32(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, domain.Validationf("%s must be an integer", name)
	}
	return int32(v), nil
}

func queryInt64Ptr(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Validationf("%s must be an integer", name)
	}
	return &v, nil
}

func queryBoolPtr(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Validationf("%s must be true or false", name)
	}
	return &v, nil
}

// queryList splits a comma separated parameter, dropping empty entries.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range strings.Split(r.URL.Query().Get(name), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func pageParams(r *http.Request) (int32, int32, error) {
	page, err := queryInt32(r, "page")
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt32(r, "page_size")
	if err != nil {
		return 0, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return page, pageSize, nil
}

func rentalFilter(r *http.Request) (domain.RentalFilter, error) {
	page, pageSize, err := pageParams(r)
	if err != nil {
		return domain.RentalFilter{}, err
	}
	filter := domain.RentalFilter{Page: page, PageSize: pageSize}
	for _, s := range queryList(r, "status") {
		st, err := domain.ParseRentalStatus(strings.ToUpper(s))
		if err != nil {
			return domain.RentalFilter{}, err
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	return filter, nil
}
