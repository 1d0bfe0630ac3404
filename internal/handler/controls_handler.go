package handler

import (
	"net/http"

	"flourerp/internal/middleware"
	"flourerp/internal/model"
	"flourerp/internal/service"
	"flourerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type ControlsHandler struct {
	controlsService service.ControlsService
}

func NewControlsHandler(controlsService service.ControlsService) *ControlsHandler {
	return &ControlsHandler{controlsService: controlsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ControlsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings/financial-controls")
	{
		settings.GET("", middleware.RequireRole(model.RoleOwner, model.RoleAdmin, model.RoleFinance), h.Get)
		settings.PUT("", middleware.RequireRole(model.RoleOwner), h.Update)
	}
}

// Get returns the financial controls settings
// @Summary      Get financial controls
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.FinancialControls}
// @Router       /api/settings/financial-controls [get]
func (h *ControlsHandler) Get(c *gin.Context) {
	controls, err := h.controlsService.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, controls))
}

// Update patches the financial controls settings
// @Summary      Update financial controls
// @Description  Patches the settings singleton; existing requisitions keep their snapshotted threshold
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateControlsRequest  true  "Controls Payload"
// @Success      200      {object}  response.Response{data=model.FinancialControls}
// @Failure      409      {object}  response.Response
// @Router       /api/settings/financial-controls [put]
func (h *ControlsHandler) Update(c *gin.Context) {
	var req service.UpdateControlsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	controls, err := h.controlsService.Update(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, controls))
}
