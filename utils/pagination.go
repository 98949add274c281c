package utils

import (
	"strconv"
)

// DefaultPageSize is the number of items shown per listing page
const DefaultPageSize = 10

// Pagination describes one page of a listing. Out-of-range page numbers
// never error: anything below 1 becomes page 1, anything past the end is
// clamped to the last page.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// NewPagination resolves the requested page against the item count.
// pageParam is the raw ?page= query value; non-numeric input means page 1.
func NewPagination(pageParam string, totalItems int64, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}

// Offset returns the row offset for the resolved page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
