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

type FinanceHandler struct {
	paymentService service.PaymentService
}

func NewFinanceHandler(paymentService service.PaymentService) *FinanceHandler {
	return &FinanceHandler{paymentService: paymentService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FinanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/api/purchase-requisitions/:id/process-payment",
		middleware.RequireRole(model.RoleFinance), h.ProcessPayment)
	router.GET("/api/payments",
		middleware.RequireRole(model.RoleFinance, model.RoleOwner, model.RoleAdmin), h.ListPayments)
}

// ProcessPayment pays out an approved requisition and completes it
// @Summary      Process payment for purchase requisition
// @Description  Records the payment and moves an admin- or owner-approved requisition to completed
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Requisition ID"
// @Param        payload  body      service.ProcessPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=model.Payment}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/purchase-requisitions/{id}/process-payment [put]
func (h *FinanceHandler) ProcessPayment(c *gin.Context) {
	var req service.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.ProcessPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payment))
}

// ListPayments returns processed payments
// @Summary      List payments
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Payment}
// @Router       /api/payments [get]
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	params := pagination.Parse(c)

	payments, err := h.paymentService.List(c.Request.Context(), params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}
