package figures

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/interfaces/http/middleware"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

func bindQuery(c *gin.Context, q interface{}) error {
	if err := c.ShouldBindQuery(q); err != nil {
		return errors.NewValidationError("invalid query parameters", err.Error())
	}
	return nil
}

// pageParams normalizes limit and offset once so the rendered next/previous
// links match the rows that were read.
func pageParams(c *gin.Context) (utils.Pagination, usecases.PageQuery) {
	page := utils.ParsePagination(c)
	return page, usecases.PageQuery{Limit: page.Limit, Offset: page.Offset}
}

func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid "+name, raw)
	}
	return uint(id), nil
}

func currentSite(c *gin.Context) (*platform.Site, error) {
	site := middleware.SiteFromContext(c)
	if site == nil {
		return nil, errors.NewNotFoundError("site not found")
	}
	return site, nil
}
