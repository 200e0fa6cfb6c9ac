package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

func contextFor(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query string
		want  Page
	}{
		{"", Page{Limit: 20, Offset: 0, Page: 1}},
		{"limit=10&page=3", Page{Limit: 10, Offset: 20, Page: 3}},
		{"limit=500", Page{Limit: 20, Offset: 0, Page: 1}},
		{"limit=abc&page=-1", Page{Limit: 20, Offset: 0, Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Pagination(contextFor(tt.query)))
		})
	}
}

func TestQueryTime(t *testing.T) {
	got, err := QueryTime(contextFor(""), "from")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = QueryTime(contextFor("from=2026-03-01T10:00:00%2B05:00"), "from")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Hour())

	_, err = QueryTime(contextFor("from=tomorrow"), "from")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
