package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is the limit/offset pair derived from ?limit= and ?page=.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Page   int `json:"page"`
}

// Pagination reads ?limit (1..100, default 20) and ?page (1-based). Bad
// values fall back to the defaults.
func Pagination(c *gin.Context) Page {
	p := Page{Limit: DefaultLimit, Page: 1}
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= MaxLimit {
			p.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			p.Page = val
		}
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// QueryTime parses an optional RFC 3339 query parameter.
func QueryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "%s must be an RFC 3339 timestamp", name)
	}
	t = t.UTC()
	return &t, nil
}
