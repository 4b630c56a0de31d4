package pitches

import (
	"errors"
	"net/http"
	"strconv"

	"launchdir/pkg/response"
	"launchdir/pkg/startups"

	"github.com/gin-gonic/gin"
)

type PitchHandler struct {
	service PitchService
}

func NewPitchHandler(service PitchService) *PitchHandler {
	return &PitchHandler{service: service}
}

func (h *PitchHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/pitches", h.createPitch)
	router.DELETE("/pitches/:id", h.deletePitch)
	router.GET("/pitches/:id", h.getPitchByID)
	router.GET("/startups/:id/pitches", h.listPitchesByStartup)
}

type createPitchRequest struct {
	ActorUUID string `json:"actor_uuid" binding:"required,uuid"`
	StartupID int64  `json:"startup_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	FileURL   string `json:"file_url" binding:"required,url"`
}

// @Summary      Attach pitch material to a startup
// @Description  Add a deck, video, or one pager to a listing. Owner only.
// @Tags         Pitches
// @Accept       json
// @Produce      json
// @Param        request body createPitchRequest true "Pitch material to attach"
// @Success      201 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pitches [post]
func (h *PitchHandler) createPitch(c *gin.Context) {
	var req createPitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "Invalid request: "+err.Error(), nil)
		return
	}

	pitch, err := h.service.CreatePitch(c.Request.Context(), req.ActorUUID, Pitch{
		StartupID: req.StartupID,
		Title:     req.Title,
		Kind:      req.Kind,
		FileURL:   req.FileURL,
	})
	if err != nil {
		sendPitchError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "Pitch created successfully", pitch)
}

// @Summary      Remove pitch material
// @Description  Soft delete a pitch. Owner only.
// @Tags         Pitches
// @Produce      json
// @Param        id path int true "Pitch ID"
// @Param        actor_uuid query string true "UUID of the acting user"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pitches/{id} [delete]
func (h *PitchHandler) deletePitch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "Invalid pitch ID", nil)
		return
	}

	actorUUID := c.Query("actor_uuid")
	if actorUUID == "" {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "actor_uuid is required", nil)
		return
	}

	if err := h.service.DeletePitch(c.Request.Context(), actorUUID, id); err != nil {
		sendPitchError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "Pitch deleted successfully", nil)
}

// @Summary      Get a pitch
// @Tags         Pitches
// @Produce      json
// @Param        id path int true "Pitch ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pitches/{id} [get]
func (h *PitchHandler) getPitchByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "Invalid pitch ID", nil)
		return
	}

	pitch, err := h.service.GetPitchByID(c.Request.Context(), id)
	if err != nil {
		sendPitchError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "Pitch retrieved successfully", pitch)
}

// @Summary      List pitch material for a startup
// @Tags         Pitches
// @Produce      json
// @Param        id path int true "Startup ID"
// @Param        page query int false "Page number"
// @Param        limit query int false "Items per page"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /startups/{id}/pitches [get]
func (h *PitchHandler) listPitchesByStartup(c *gin.Context) {
	startupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "Invalid startup ID", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	pitches, total, err := h.service.ListPitchesByStartup(c.Request.Context(), startupID, page, limit)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "Failed to list pitches: "+err.Error(), nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "Pitches retrieved successfully", PitchList{
		Pitches: pitches,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

func sendPitchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPitchNotFound), errors.Is(err, startups.ErrStartupNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, ErrInvalidKind):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		response.SendAPIResponse(c, http.StatusForbidden, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "Internal error: "+err.Error(), nil)
	}
}
