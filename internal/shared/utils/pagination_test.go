package utils

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		offset int
		want   Pagination
	}{
		{"defaults", 0, 0, Pagination{Limit: constants.DefaultLimit, Offset: 0}},
		{"negative offset", 10, -5, Pagination{Limit: 10, Offset: 0}},
		{"capped limit", constants.MaxLimit + 1, 20, Pagination{Limit: constants.MaxLimit, Offset: 20}},
		{"kept as is", 5, 15, Pagination{Limit: 5, Offset: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePagination(tt.limit, tt.offset))
		})
	}
}

func TestPaginationLinks(t *testing.T) {
	req := httptest.NewRequest("GET", "/figures/api/courses-general/?search=demo&limit=10&offset=10", nil)
	page := Pagination{Limit: 10, Offset: 10}

	t.Run("next page exists", func(t *testing.T) {
		next := page.NextURL(req, 35)
		require.NotNil(t, next)
		u, err := url.Parse(*next)
		require.NoError(t, err)
		assert.Equal(t, "20", u.Query().Get("offset"))
		assert.Equal(t, "10", u.Query().Get("limit"))
		assert.Equal(t, "demo", u.Query().Get("search"))
		assert.Equal(t, "example.com", u.Host)
	})

	t.Run("last page has no next", func(t *testing.T) {
		assert.Nil(t, page.NextURL(req, 20))
	})

	t.Run("previous drops offset on first page", func(t *testing.T) {
		prev := page.PreviousURL(req)
		require.NotNil(t, prev)
		u, err := url.Parse(*prev)
		require.NoError(t, err)
		assert.Empty(t, u.Query().Get("offset"))
	})

	t.Run("first page has no previous", func(t *testing.T) {
		assert.Nil(t, Pagination{Limit: 10}.PreviousURL(req))
	})
}

type listQuery struct {
	DateFor  string `form:"date_for" validate:"omitempty,datefor"`
	Ordering string `form:"ordering" validate:"omitempty,oneof=display_name -display_name"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(listQuery{DateFor: "2024-02-29", Ordering: "display_name"}))
	assert.NoError(t, ValidateStruct(listQuery{}))

	err := ValidateStruct(listQuery{DateFor: "02/29/2024", Ordering: "start"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_for must be a date in YYYY-MM-DD format")
	assert.Contains(t, err.Error(), "ordering must be one of")
}
