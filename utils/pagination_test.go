package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		pageParam      string
		totalItems     int64
		expectedPage   int
		expectedPages  int
		expectedOffset int
	}{
		{"first page by default", "", 25, 1, 3, 0},
		{"explicit first page", "1", 25, 1, 3, 0},
		{"middle page", "2", 25, 2, 3, 10},
		{"last page", "3", 25, 3, 3, 20},
		{"page past the end clamps to last page", "999", 3, 1, 1, 0},
		{"page past the end on multiple pages", "999", 25, 3, 3, 20},
		{"zero page becomes first", "0", 25, 1, 3, 0},
		{"negative page becomes first", "-4", 25, 1, 3, 0},
		{"non-numeric page becomes first", "abc", 25, 1, 3, 0},
		{"empty listing still has one page", "1", 0, 1, 1, 0},
		{"exact multiple of page size", "2", 20, 2, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.pageParam, tt.totalItems, DefaultPageSize)

			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedPages, p.TotalPages)
			assert.Equal(t, tt.expectedOffset, p.Offset())
			assert.Equal(t, tt.totalItems, p.TotalItems)
			assert.Equal(t, DefaultPageSize, p.PageSize)
		})
	}
}

func TestNewPaginationFallbackPageSize(t *testing.T) {
	p := NewPagination("1", 5, 0)
	assert.Equal(t, DefaultPageSize, p.PageSize, "Non-positive page size should fall back to the default")
}
