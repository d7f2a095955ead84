package figures

import (
	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

// MetricsHandler serves the stored daily and monthly metrics records.
type MetricsHandler struct {
	listSiteDailyUC   usecases.ListSiteDailyMetricsExecutor
	getSiteDailyUC    usecases.GetSiteDailyMetricsExecutor
	listCourseDailyUC usecases.ListCourseDailyMetricsExecutor
	getCourseDailyUC  usecases.GetCourseDailyMetricsExecutor
	listSiteMauUC     usecases.ListSiteMauMetricsExecutor
	listCourseMauUC   usecases.ListCourseMauMetricsExecutor
	siteMauLiveUC     usecases.GetSiteMauLiveMetricsExecutor
	courseMauLiveUC   usecases.GetCourseMauLiveMetricsExecutor
	logger            logger.Interface
}

func NewMetricsHandler(
	listSiteDailyUC usecases.ListSiteDailyMetricsExecutor,
	getSiteDailyUC usecases.GetSiteDailyMetricsExecutor,
	listCourseDailyUC usecases.ListCourseDailyMetricsExecutor,
	getCourseDailyUC usecases.GetCourseDailyMetricsExecutor,
	listSiteMauUC usecases.ListSiteMauMetricsExecutor,
	listCourseMauUC usecases.ListCourseMauMetricsExecutor,
	siteMauLiveUC usecases.GetSiteMauLiveMetricsExecutor,
	courseMauLiveUC usecases.GetCourseMauLiveMetricsExecutor,
	logger logger.Interface,
) *MetricsHandler {
	return &MetricsHandler{
		listSiteDailyUC:   listSiteDailyUC,
		getSiteDailyUC:    getSiteDailyUC,
		listCourseDailyUC: listCourseDailyUC,
		getCourseDailyUC:  getCourseDailyUC,
		listSiteMauUC:     listSiteMauUC,
		listCourseMauUC:   listCourseMauUC,
		siteMauLiveUC:     siteMauLiveUC,
		courseMauLiveUC:   courseMauLiveUC,
		logger:            logger,
	}
}

// ListSiteDailyMetrics handles GET /site-daily-metrics
func (h *MetricsHandler) ListSiteDailyMetrics(c *gin.Context) {
	var q usecases.ListSiteDailyMetricsQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for site daily metrics", "error", err)
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

	result, err := h.listSiteDailyUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// GetSiteDailyMetrics handles GET /site-daily-metrics/:id
func (h *MetricsHandler) GetSiteDailyMetrics(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getSiteDailyUC.Execute(c.Request.Context(), usecases.GetSiteDailyMetricsQuery{Site: site, ID: id})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

// ListCourseDailyMetrics handles GET /course-daily-metrics
func (h *MetricsHandler) ListCourseDailyMetrics(c *gin.Context) {
	var q usecases.ListCourseDailyMetricsQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for course daily metrics", "error", err)
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

	result, err := h.listCourseDailyUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// GetCourseDailyMetrics handles GET /course-daily-metrics/:id
func (h *MetricsHandler) GetCourseDailyMetrics(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getCourseDailyUC.Execute(c.Request.Context(), usecases.GetCourseDailyMetricsQuery{Site: site, ID: id})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

// ListSiteMauMetrics handles GET /site-mau-metrics
func (h *MetricsHandler) ListSiteMauMetrics(c *gin.Context) {
	q, page, ok := h.mauQuery(c)
	if !ok {
		return
	}

	result, err := h.listSiteMauUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// ListCourseMauMetrics handles GET /course-mau-metrics
func (h *MetricsHandler) ListCourseMauMetrics(c *gin.Context) {
	q, page, ok := h.mauQuery(c)
	if !ok {
		return
	}

	result, err := h.listCourseMauUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

func (h *MetricsHandler) mauQuery(c *gin.Context) (usecases.ListMauMetricsQuery, utils.Pagination, bool) {
	var q usecases.ListMauMetricsQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for mau metrics", "error", err)
		utils.ErrorResponseWithError(c, err)
		return q, utils.Pagination{}, false
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return q, utils.Pagination{}, false
	}
	page, pageQuery := pageParams(c)
	q.Site = site
	q.PageQuery = pageQuery
	return q, page, true
}

// GetSiteMauLiveMetrics handles GET /site-mau-metrics/live
func (h *MetricsHandler) GetSiteMauLiveMetrics(c *gin.Context) {
	q, ok := h.liveQuery(c)
	if !ok {
		return
	}

	result, err := h.siteMauLiveUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

// GetCourseMauLiveMetrics handles GET /course-mau-metrics/live
func (h *MetricsHandler) GetCourseMauLiveMetrics(c *gin.Context) {
	q, ok := h.liveQuery(c)
	if !ok {
		return
	}

	result, err := h.courseMauLiveUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

func (h *MetricsHandler) liveQuery(c *gin.Context) (usecases.MauLiveQuery, bool) {
	var q usecases.MauLiveQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for live mau metrics", "error", err)
		utils.ErrorResponseWithError(c, err)
		return q, false
	}
	site, err := currentSite(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return q, false
	}
	q.Site = site
	return q, true
}
