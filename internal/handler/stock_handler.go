package handler

import (
	"net/http"
	"strconv"

	"flourerp/internal/middleware"
	"flourerp/internal/model"
	"flourerp/internal/repository"
	"flourerp/internal/service"
	"flourerp/pkg/pagination"
	"flourerp/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockTransferService
}

func NewStockHandler(stockService service.StockTransferService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock-requests")
	{
		stock.POST("", middleware.RequireRole(model.RoleSales, model.RoleAdmin), h.Create)
		stock.GET("", middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleManager, model.RoleOwner, model.RoleStorekeeper, model.RoleGuard), h.List)
		stock.GET("/:id", middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleManager, model.RoleOwner, model.RoleStorekeeper, model.RoleGuard), h.GetByID)
		stock.PUT("/:id/admin-approve", middleware.RequireRole(model.RoleAdmin), h.AdminApprove)
		stock.PUT("/:id/manager-approve", middleware.RequireRole(model.RoleManager), h.ManagerApprove)
		stock.PUT("/:id/fulfill", middleware.RequireRole(model.RoleStorekeeper), h.Fulfill)
		stock.PUT("/:id/gate-verify", middleware.RequireRole(model.RoleGuard), h.GateVerify)
		stock.PUT("/:id/confirm-delivery", middleware.RequireRole(model.RoleSales, model.RoleManager), h.ConfirmDelivery)
		stock.PUT("/:id/dispatch", middleware.RequireRole(model.RoleManager, model.RoleAdmin), h.Dispatch)
		stock.PUT("/:id/cancel", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleOwner), h.Cancel)
	}

	// Customer deliveries are stock requests flagged is_customer_delivery
	router.GET("/api/customer-deliveries",
		middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleManager),
		h.ListCustomerDeliveries)
}

// Create submits a stock transfer request
// @Summary      Create stock transfer request
// @Description  Submits a stock transfer; quantity is normalized to kilograms from the package size
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateStockRequest  true  "Stock Request Payload"
// @Success      201      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/stock-requests [post]
func (h *StockHandler) Create(c *gin.Context) {
	var req service.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if !req.Quantity.IsPositive() {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "quantity must be greater than zero"))
		return
	}

	request, err := h.stockService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// List returns stock requests, optionally filtered
// @Summary      List stock transfer requests
// @Tags         stock-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status          query     string  false  "Filter by status"
// @Param        source_branch   query     string  false  "Filter by source branch"
// @Success      200             {object}  response.Response{data=[]model.StockTransferRequest}
// @Router       /api/stock-requests [get]
func (h *StockHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.StockRequestFilter{
		Status:       c.Query("status"),
		SourceBranch: c.Query("source_branch"),
		Limit:        params.Limit,
	}
	if raw := c.Query("is_customer_delivery"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.IsCustomerDelivery = &v
		}
	}

	requests, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListCustomerDeliveries returns stock requests flagged as customer deliveries
// @Summary      List customer deliveries
// @Tags         stock-requests
// @Produce      json
// @Security     BearerAuth
// @Param        dispatch_status  query     string  false  "Filter by dispatch status"
// @Success      200              {object}  response.Response{data=[]model.StockTransferRequest}
// @Router       /api/customer-deliveries [get]
func (h *StockHandler) ListCustomerDeliveries(c *gin.Context) {
	params := pagination.Parse(c)
	isCustomer := true
	filter := repository.StockRequestFilter{
		IsCustomerDelivery: &isCustomer,
		DispatchStatus:     c.Query("dispatch_status"),
		Limit:              params.Limit,
	}

	requests, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// GetByID returns one stock request
// @Summary      Get stock transfer request
// @Tags         stock-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Stock Request ID"
// @Success      200  {object}  response.Response{data=model.StockTransferRequest}
// @Failure      404  {object}  response.Response
// @Router       /api/stock-requests/{id} [get]
func (h *StockHandler) GetByID(c *gin.Context) {
	request, err := h.stockService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// AdminApprove moves the request to pending_manager_approval and reserves inventory
// @Summary      Admin-approve stock request
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Stock Request ID"
// @Param        payload  body      service.StockApprovalRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/admin-approve [put]
func (h *StockHandler) AdminApprove(c *gin.Context) {
	var req service.StockApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.ApproveAsAdmin(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ManagerApprove moves the request to pending_fulfillment
// @Summary      Manager-approve stock request
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Stock Request ID"
// @Param        payload  body      service.StockApprovalRequest  true  "Approval Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/manager-approve [put]
func (h *StockHandler) ManagerApprove(c *gin.Context) {
	var req service.StockApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.ApproveAsManager(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Fulfill deducts inventory and marks the request ready for pickup
// @Summary      Fulfill stock request
// @Description  Deducts source branch inventory once and moves the request to ready_for_pickup
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Stock Request ID"
// @Param        payload  body      service.FulfillStockRequest  true  "Fulfillment Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/fulfill [put]
func (h *StockHandler) Fulfill(c *gin.Context) {
	var req service.FulfillStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.Fulfill(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// GateVerify records the gate pass and moves the request in transit
// @Summary      Gate-verify stock request
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Stock Request ID"
// @Param        payload  body      service.GateVerifyRequest  true  "Gate Verification Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/gate-verify [put]
func (h *StockHandler) GateVerify(c *gin.Context) {
	var req service.GateVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.GateVerify(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// ConfirmDelivery records receipt and closes out the transfer
// @Summary      Confirm delivery of stock request
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Stock Request ID"
// @Param        payload  body      service.ConfirmDeliveryRequest  true  "Delivery Confirmation Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/confirm-delivery [put]
func (h *StockHandler) ConfirmDelivery(c *gin.Context) {
	var req service.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.ConfirmDelivery(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Dispatch marks a customer delivery dispatched
// @Summary      Dispatch customer delivery
// @Description  Flips the dispatch sub-status of a customer delivery; the main workflow status is not changed
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Stock Request ID"
// @Param        payload  body      service.DispatchRequest  true  "Dispatch Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/stock-requests/{id}/dispatch [put]
func (h *StockHandler) Dispatch(c *gin.Context) {
	var req service.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.Dispatch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// Cancel terminates the request from any non-confirmed state
// @Summary      Cancel stock request
// @Tags         stock-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Stock Request ID"
// @Param        payload  body      service.CancelStockRequest  true  "Cancellation Payload"
// @Success      200      {object}  response.Response{data=model.StockTransferRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/stock-requests/{id}/cancel [put]
func (h *StockHandler) Cancel(c *gin.Context) {
	var req service.CancelStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.stockService.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}
