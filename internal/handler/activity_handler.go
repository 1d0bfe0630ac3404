package handler

import (
	"net/http"

	"flourerp/internal/middleware"
	"flourerp/internal/model"
	"flourerp/internal/service"
	"flourerp/pkg/pagination"
	"flourerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/activities",
		middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleOwner),
		h.ListRecent)
}

// ListRecent returns the most recent activity log entries, newest first
// @Summary      List recent activities
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max entries to return"
// @Success      200    {object}  response.Response{data=[]model.ActivityLog}
// @Router       /api/activities [get]
func (h *ActivityHandler) ListRecent(c *gin.Context) {
	params := pagination.Parse(c)

	activities, err := h.activityService.ListRecent(c.Request.Context(), params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, activities))
}
