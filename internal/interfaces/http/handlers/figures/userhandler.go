package figures

import (
	"github.com/gin-gonic/gin"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

type UserHandler struct {
	listIndexUC   usecases.ListUserIndexExecutor
	listGeneralUC usecases.ListGeneralUserDataExecutor
	getLearnerUC  usecases.GetLearnerDetailsExecutor
	logger        logger.Interface
}

func NewUserHandler(
	listIndexUC usecases.ListUserIndexExecutor,
	listGeneralUC usecases.ListGeneralUserDataExecutor,
	getLearnerUC usecases.GetLearnerDetailsExecutor,
	logger logger.Interface,
) *UserHandler {
	return &UserHandler{
		listIndexUC:   listIndexUC,
		listGeneralUC: listGeneralUC,
		getLearnerUC:  getLearnerUC,
		logger:        logger,
	}
}

// ListUserIndex handles GET /user-index
func (h *UserHandler) ListUserIndex(c *gin.Context) {
	q, page, ok := h.searchQuery(c)
	if !ok {
		return
	}

	result, err := h.listIndexUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// ListGeneralUserData handles GET /users-general
func (h *UserHandler) ListGeneralUserData(c *gin.Context) {
	q, page, ok := h.searchQuery(c)
	if !ok {
		return
	}

	result, err := h.listGeneralUC.Execute(c.Request.Context(), q)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListResponse(c, result.Results, result.Count, page)
}

// GetLearnerDetails handles GET /learners-detailed/:id
func (h *UserHandler) GetLearnerDetails(c *gin.Context) {
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

	result, err := h.getLearnerUC.Execute(c.Request.Context(), usecases.LearnerQuery{Site: site, UserID: id})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ObjectResponse(c, result)
}

func (h *UserHandler) searchQuery(c *gin.Context) (usecases.SearchQuery, utils.Pagination, bool) {
	var q usecases.SearchQuery
	if err := bindQuery(c, &q); err != nil {
		h.logger.Warnw("invalid query for users", "error", err)
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
