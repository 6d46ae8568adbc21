package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"conferenceregistration/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{query: "", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{query: "page=3&page_size=50", want: domain.PaginationParams{Page: 3, PageSize: 50}},
		{query: "page=0&page_size=-1", want: domain.PaginationParams{Page: 1, PageSize: 20}},
		{query: "page=x&page_size=1000", want: domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/registrations?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 41, TotalPages: 3}, NewPaginationMeta(1, 20, 41))
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 41).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(1, 20, 0).TotalPages)
}
