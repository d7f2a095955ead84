package figures

import (
	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

// CourseHandler serves course summaries and enrollments.
type CourseHandler struct {
	listGeneralUC     usecases.ListGeneralCourseDataExecutor
	getGeneralUC      usecases.GetGeneralCourseDataExecutor
	getDetailsUC      usecases.GetCourseDetailsExecutor
	listEnrollmentsUC usecases.ListCourseEnrollmentsExecutor
	logger            logger.Interface
}

func NewCourseHandler(
	listGeneralUC usecases.ListGeneralCourseDataExecutor,
	getGeneralUC usecases.GetGeneralCourseDataExecutor,
	getDetailsUC usecases.GetCourseDetailsExecutor,
	listEnrollmentsUC usecases.ListCourseEnrollmentsExecutor,
	logger logger.Interface,
) *CourseHandler {
	return &CourseHandler{
		listGeneralUC:     listGeneralUC,
		getGeneralUC:      getGeneralUC,
		getDetailsUC:      getDetailsUC,
		listEnrollmentsUC: listEnrollmentsUC,
		logger:            logger,
	}
}

// ListGeneralCourseData handles GET /courses-general
func (h *CourseHandler) ListGeneralCourseData(c *gin.Context) {
	var q usecases.SearchQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for general course data", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	page, pageQuery := pageParams(c)
	q.Site = site
	q.PageQuery = pageQuery

	result, err := h.listGeneralUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// GetGeneralCourseData handles GET /courses-general/:course_id
func (h *CourseHandler) GetGeneralCourseData(c *gin.Context) {
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getGeneralUC.Execute(c.Request.Context(), usecases.CourseQuery{
		Site:     site,
		CourseID: c.Param("course_id"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

// GetCourseDetails handles GET /courses-detailed/:course_id
func (h *CourseHandler) GetCourseDetails(c *gin.Context) {
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getDetailsUC.Execute(c.Request.Context(), usecases.CourseQuery{
		Site:     site,
		CourseID: c.Param("course_id"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

// ListCourseEnrollments handles GET /course-enrollments
func (h *CourseHandler) ListCourseEnrollments(c *gin.Context) {
	var q usecases.ListCourseEnrollmentsQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for course enrollments", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	page, pageQuery := pageParams(c)
	q.Site = site
	q.PageQuery = pageQuery

	result, err := h.listEnrollmentsUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}
