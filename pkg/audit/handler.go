package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchdir/pkg/response"
)

type AuditHandler struct {
	recorder Recorder
}

func NewAuditHandler(recorder Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

func (h *AuditHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/admin/audit/:entity/:id", h.listByEntity)
}

// @Summary      List audit entries for an entity
// @Description  Retrieves the audit trail for a given entity, newest first
// @Tags         audit
// @Produce      json
// @Param        entity path string true "Entity name (e.g. startup)"
// @Param        id     path int    true "Entity ID"
// @Param        page   query int false "Page number" default(1)
// @Param        limit  query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=EntryList}
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /admin/audit/{entity}/{id} [get]
func (h *AuditHandler) listByEntity(c *gin.Context) {
	entity := c.Param("entity")
	entityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || entityID <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid entity id", nil)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	entries, total, err := h.recorder.ListByEntity(c.Request.Context(), entity, entityID, limit, (page-1)*limit)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		return
	}

	data := EntryList{Items: entries, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "audit entries listed", data)
}
