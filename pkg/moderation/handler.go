package moderation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchdir/pkg/response"
)

type ModerationHandler struct {
	service ModerationService
}

func NewModerationHandler(service ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

func (h *ModerationHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/admin/moderation/reconcile", h.reconcile)
}

// @Summary      Repair moderation statuses
// @Description  Resets every record with a status outside pending/approved/rejected back to pending
// @Tags         moderation
// @Produce      json
// @Success      200 {object} response.APIResponse{data=ReconcileResult}
// @Failure      500 {object} response.APIResponse
// @Router       /admin/moderation/reconcile [post]
func (h *ModerationHandler) reconcile(c *gin.Context) {
	result, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "reconciliation complete", result)
}
