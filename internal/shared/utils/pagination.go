package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/shared/constants"
)

// Pagination holds parsed limit/offset parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ValidatePagination normalizes limit and offset.
// Limit defaults to DefaultLimit when below 1 and is capped at MaxLimit.
// Negative offsets become 0.
func ValidatePagination(limit, offset int) Pagination {
	if limit < 1 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// ParsePagination reads limit and offset from the query string.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		parseQueryInt(c, "limit", constants.DefaultLimit),
		parseQueryInt(c, "offset", 0),
	)
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// NextURL returns the link to the following page, or nil on the last page.
func (p Pagination) NextURL(r *http.Request, total int64) *string {
	if int64(p.Offset+p.Limit) >= total {
		return nil
	}
	return p.pageURL(r, p.Offset+p.Limit)
}

// PreviousURL returns the link to the preceding page, or nil on the first page.
func (p Pagination) PreviousURL(r *http.Request) *string {
	if p.Offset <= 0 {
		return nil
	}
	prev := p.Offset - p.Limit
	if prev < 0 {
		prev = 0
	}
	return p.pageURL(r, prev)
}

func (p Pagination) pageURL(r *http.Request, offset int) *string {
	if r == nil || r.URL == nil {
		return nil
	}
	u := *r.URL
	q := u.Query()
	q.Set("limit", strconv.Itoa(p.Limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	s := u.String()
	return &s
}
