package helpers

import (
	"net/http"
	"strconv"

	"eventmanagement/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	pageSize := DefaultPageSize
	if s := r.URL.Query().Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			pageSize = min(v, MaxPageSize)
		}
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// Page is the paginated list payload: the total count, the page coordinates and the page's results.
// swagger:model Page
type Page[T any] struct {
	Count      int `json:"count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Results    []T `json:"results"`
}

// NewPage builds a Page from the request params, the total count and the current page's items.
// TotalPages is computed as ceiling(total / pageSize); if pageSize is 0, TotalPages is 0.
func NewPage[T any](params domain.PaginationParams, total int, results []T) Page[T] {
	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (total + params.PageSize - 1) / params.PageSize
	}
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
		Results:    results,
	}
}
