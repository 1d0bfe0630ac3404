package handler

import (
	"net/http"

	"flourerp/internal/middleware"
	"flourerp/internal/model"
	"flourerp/internal/repository"
	"flourerp/internal/service"
	"flourerp/pkg/pagination"
	"flourerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequisitionHandler struct {
	requisitionService service.RequisitionService
}

func NewRequisitionHandler(requisitionService service.RequisitionService) *RequisitionHandler {
	return &RequisitionHandler{requisitionService: requisitionService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	requisitions := router.Group("/api/purchase-requisitions")
	{
		requisitions.POST("", middleware.RequireRole(model.RoleSales, model.RoleAdmin), h.Create)
		requisitions.GET("", middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleManager, model.RoleOwner, model.RoleFinance), h.List)
		requisitions.GET("/:id", middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleManager, model.RoleOwner, model.RoleFinance), h.GetByID)
		requisitions.PUT("/:id/admin-approve", middleware.RequireRole(model.RoleAdmin), h.AdminApprove)
		requisitions.PUT("/:id/owner-approve", middleware.RequireRole(model.RoleOwner), h.OwnerApprove)
		requisitions.PUT("/:id/reject", middleware.RequireRole(model.RoleAdmin, model.RoleOwner), h.Reject)
	}
}

// Create submits a purchase requisition and routes it by amount
// @Summary      Create purchase requisition
// @Description  Submits a purchase requisition; amounts at or below the admin threshold route to admin, above it to owner
// @Tags         purchase-requisitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequisitionRequest  true  "Requisition Payload"
// @Success      201      {object}  response.Response{data=model.PurchaseRequisition}
// @Failure      400      {object}  response.Response
// @Router       /api/purchase-requisitions [post]
func (h *RequisitionHandler) Create(c *gin.Context) {
	var req service.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if !req.EstimatedCost.IsPositive() {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "estimated_cost must be greater than zero"))
		return
	}

	requisition, err := h.requisitionService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requisition))
}

// List returns purchase requisitions, optionally filtered by status and branch
// @Summary      List purchase requisitions
// @Tags         purchase-requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        branch  query     string  false  "Filter by branch"
// @Success      200     {object}  response.Response{data=[]model.PurchaseRequisition}
// @Router       /api/purchase-requisitions [get]
func (h *RequisitionHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.RequisitionFilter{
		Status:   c.Query("status"),
		BranchID: c.Query("branch"),
		Limit:    params.Limit,
	}

	requisitions, err := h.requisitionService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisitions))
}

// GetByID returns one purchase requisition
// @Summary      Get purchase requisition
// @Tags         purchase-requisitions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  response.Response{data=model.PurchaseRequisition}
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *gin.Context) {
	requisition, err := h.requisitionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// AdminApprove approves a requisition routed to the admin tier
// @Summary      Admin-approve purchase requisition
// @Description  Approves a requisition pending admin approval; fails if the amount exceeds the snapshotted threshold
// @Tags         purchase-requisitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Requisition ID"
// @Param        payload  body      service.ApproveRequisitionRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=model.PurchaseRequisition}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/purchase-requisitions/{id}/admin-approve [put]
func (h *RequisitionHandler) AdminApprove(c *gin.Context) {
	var req service.ApproveRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.ApproveAsAdmin(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// OwnerApprove approves a requisition routed to the owner tier
// @Summary      Owner-approve purchase requisition
// @Tags         purchase-requisitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Requisition ID"
// @Param        payload  body      service.ApproveRequisitionRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=model.PurchaseRequisition}
// @Failure      409      {object}  response.Response
// @Router       /api/purchase-requisitions/{id}/owner-approve [put]
func (h *RequisitionHandler) OwnerApprove(c *gin.Context) {
	var req service.ApproveRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.ApproveAsOwner(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}

// Reject rejects a requisition from any non-terminal state
// @Summary      Reject purchase requisition
// @Tags         purchase-requisitions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Requisition ID"
// @Param        payload  body      service.RejectRequisitionRequest  true  "Rejection Payload"
// @Success      200      {object}  response.Response{data=model.PurchaseRequisition}
// @Failure      409      {object}  response.Response
// @Router       /api/purchase-requisitions/{id}/reject [put]
func (h *RequisitionHandler) Reject(c *gin.Context) {
	var req service.RejectRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	requisition, err := h.requisitionService.Reject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requisition))
}
