package startups

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchdir/pkg/response"
	"launchdir/pkg/slug"
)

type StartupHandler struct {
	service StartupService
}

func NewStartupHandler(service StartupService) *StartupHandler {
	return &StartupHandler{service: service}
}

func (h *StartupHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/startups", h.createStartup)
	router.PUT("/startups/:id", h.updateStartup)
	router.DELETE("/startups/:id", h.deleteStartup)
	router.GET("/startups", h.listStartups)
	router.GET("/startups/:id", h.getStartupByID)
	router.GET("/startups/slug/:slug", h.getStartupBySlug)
	router.GET("/startups/user/:uuid", h.listStartupsByOwner)
	router.PATCH("/startups/:id/status", h.setStatusAsOwner)
	router.PATCH("/admin/startups/:id/status", h.setStatusAsAdmin)
}

type createStartupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	WebsiteURL  string `json:"website_url"`
	LogoURL     string `json:"logo_url"`
	OwnerUUID   string `json:"owner_uuid" binding:"required"`
}

type updateStartupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	WebsiteURL  string `json:"website_url"`
	LogoURL     string `json:"logo_url"`
	ActorUUID   string `json:"actor_uuid" binding:"required"`
}

type setStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	ActorUUID string `json:"actor_uuid" binding:"required"`
}

// @Summary      Submit a startup listing
// @Description  Creates a listing; the slug is derived from the name and the status starts as pending
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        request body createStartupRequest true "Startup creation request"
// @Success      201  {object}  response.APIResponse{data=Startup} "Startup created"
// @Failure      400  {object}  response.APIResponse "Invalid request payload"
// @Failure      409  {object}  response.APIResponse "No slug available"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups [post]
func (h *StartupHandler) createStartup(c *gin.Context) {
	var req createStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	startup, err := h.service.CreateStartup(c.Request.Context(), Startup{
		Name:        req.Name,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		LogoURL:     req.LogoURL,
		OwnerUUID:   req.OwnerUUID,
	})
	if err != nil {
		switch {
		case errors.Is(err, slug.ErrEmptySlug):
			response.SendAPIResponse(c, http.StatusBadRequest, false, "name has no usable characters for a slug", nil)
		case errors.Is(err, slug.ErrExhausted):
			response.SendAPIResponse(c, http.StatusConflict, false, "could not assign a unique slug", nil)
		default:
			response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		}
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "startup created", startup)
}

// @Summary      Update a startup listing
// @Description  Updates display fields; only the owner may edit, slug and status are immutable here
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Param        request body updateStartupRequest true "Startup update request"
// @Success      200  {object}  response.APIResponse{data=Startup} "Startup updated"
// @Failure      400  {object}  response.APIResponse "Invalid request"
// @Failure      403  {object}  response.APIResponse "Not the owner"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [put]
func (h *StartupHandler) updateStartup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	var req updateStartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	startup, err := h.service.UpdateStartup(c.Request.Context(), req.ActorUUID, Startup{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup updated", startup)
}

// @Summary      Change moderation status (owner)
// @Description  Owner self-service status change for their own listing
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Param        request body setStatusRequest true "Status change request"
// @Success      200  {object}  response.APIResponse{data=Startup} "Status updated"
// @Failure      400  {object}  response.APIResponse "Invalid status"
// @Failure      403  {object}  response.APIResponse "Not the owner"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id}/status [patch]
func (h *StartupHandler) setStatusAsOwner(c *gin.Context) {
	h.setStatus(c, false)
}

// @Summary      Change moderation status (admin)
// @Description  Administrator override; the actor must hold the admin role
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Param        request body setStatusRequest true "Status change request"
// @Success      200  {object}  response.APIResponse{data=Startup} "Status updated"
// @Failure      400  {object}  response.APIResponse "Invalid status"
// @Failure      403  {object}  response.APIResponse "Not an admin"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /admin/startups/{id}/status [patch]
func (h *StartupHandler) setStatusAsAdmin(c *gin.Context) {
	h.setStatus(c, true)
}

func (h *StartupHandler) setStatus(c *gin.Context, asAdmin bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	startup, err := h.service.SetStatus(c.Request.Context(), id, req.Status, req.ActorUUID, asAdmin)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "status updated", startup)
}

// @Summary      Delete a startup listing
// @Description  Soft deletes a listing; allowed for the owner or an admin
// @Tags         startups
// @Produce      json
// @Param        id         path  int    true "Startup ID"
// @Param        actor_uuid query string true "Acting user UUID"
// @Success      200  {object}  response.APIResponse "Startup deleted"
// @Failure      400  {object}  response.APIResponse "Invalid startup ID"
// @Failure      403  {object}  response.APIResponse "Forbidden"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [delete]
func (h *StartupHandler) deleteStartup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	actorUUID := c.Query("actor_uuid")
	if actorUUID == "" {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "actor_uuid must be provided", nil)
		return
	}

	if err := h.service.DeleteStartup(c.Request.Context(), id, actorUUID); err != nil {
		h.sendServiceError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup deleted", nil)
}

// @Summary      Get startup by ID
// @Tags         startups
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Success      200  {object}  response.APIResponse{data=Startup} "Startup fetched"
// @Failure      400  {object}  response.APIResponse "Invalid startup ID"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [get]
func (h *StartupHandler) getStartupByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return
	}

	startup, err := h.service.GetStartupByID(c.Request.Context(), id)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup fetched", startup)
}

// @Summary      Get startup by slug
// @Tags         startups
// @Produce      json
// @Param        slug path      string  true  "Startup slug"
// @Success      200  {object}  response.APIResponse{data=Startup} "Startup fetched"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/slug/{slug} [get]
func (h *StartupHandler) getStartupBySlug(c *gin.Context) {
	startup, err := h.service.GetStartupBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup fetched", startup)
}

// @Summary      List startups
// @Description  Paginated listing with an optional moderation-status filter
// @Tags         startups
// @Produce      json
// @Param        status query     string false "Filter by status (pending/approved/rejected)"
// @Param        page   query     int  false  "Page number" default(1)
// @Param        limit  query     int  false  "Items per page" default(10)
// @Success      200  {object}  response.APIResponse{data=StartupList} "Startups listed"
// @Failure      400  {object}  response.APIResponse "Invalid status filter"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups [get]
func (h *StartupHandler) listStartups(c *gin.Context) {
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

	// The public directory only shows approved listings; admins pass
	// status=all or a specific status to see the rest.
	status := c.DefaultQuery("status", StatusApproved)
	if status == "all" {
		status = ""
	}

	items, total, err := h.service.ListStartups(c.Request.Context(), status, page, limit)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	data := StartupList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "startups listed", data)
}

// @Summary      List startups by owner
// @Tags         startups
// @Produce      json
// @Param        uuid   path      string  true  "Owner UUID"
// @Success      200  {object}  response.APIResponse{data=StartupList} "Startups listed"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups/user/{uuid} [get]
func (h *StartupHandler) listStartupsByOwner(c *gin.Context) {
	items, err := h.service.ListStartupsByOwner(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		return
	}

	data := StartupList{Items: items, Total: int64(len(items))}
	response.SendAPIResponse(c, http.StatusOK, true, "startups listed by owner", data)
}

func (h *StartupHandler) sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStartupNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "startup not found", nil)
	case errors.Is(err, ErrInvalidStatus):
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid status", nil)
	case errors.Is(err, ErrForbidden):
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}
