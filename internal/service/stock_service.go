package service

import (
	"context"
	"fmt"
	"time"

	"flourerp/internal/apperror"
	"flourerp/internal/model"
	"flourerp/internal/repository"
	ws "flourerp/internal/websocket"
	"flourerp/pkg/unitparse"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateStockRequest struct {
	SourceBranch      string          `json:"source_branch" binding:"required"`
	DestinationBranch string          `json:"destination_branch"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name" binding:"required"`
	PackageSize       string          `json:"package_size"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	// QuantityKg short-circuits package normalization for payloads that are already
	// expressed in kilograms.
	QuantityKg           *decimal.Decimal `json:"quantity_kg"`
	Urgency              string           `json:"urgency"`
	Reason               string           `json:"reason"`
	RequestedBy          string           `json:"requested_by" binding:"required"`
	BatchID              *string          `json:"batch_id"`
	IsCustomerDelivery   bool             `json:"is_customer_delivery"`
	CustomerInfo         *string          `json:"customer_info"`
	CustomerOrderDetails *string          `json:"customer_order_details"`
}

type StockApprovalRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
	Notes      string `json:"notes"`
}

type FulfillStockRequest struct {
	FulfilledBy string `json:"fulfilled_by" binding:"required"`
	Notes       string `json:"notes"`
}

type GateVerifyRequest struct {
	VerifiedBy     string `json:"verified_by" binding:"required"`
	GatePassNumber string `json:"gate_pass_number" binding:"required"`
	VehicleNumber  string `json:"vehicle_number"`
	DriverName     string `json:"driver_name"`
	Notes          string `json:"notes"`
}

type ConfirmDeliveryRequest struct {
	ConfirmedBy      string           `json:"confirmed_by" binding:"required"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity"`
	Condition        string           `json:"condition"`
	Notes            string           `json:"notes"`
}

type DispatchRequest struct {
	DispatchedBy         string     `json:"dispatched_by" binding:"required"`
	DriverName           string     `json:"driver_name"`
	VehicleNumber        string     `json:"vehicle_number"`
	ExpectedDeliveryTime *time.Time `json:"expected_delivery_time"`
	Notes                string     `json:"dispatch_notes"`
}

type CancelStockRequest struct {
	CancelledBy string `json:"cancelled_by" binding:"required"`
	Reason      string `json:"reason"`
}

// --- Interface ---

type StockTransferService interface {
	Create(ctx context.Context, req CreateStockRequest) (*model.StockTransferRequest, error)
	ApproveAsAdmin(ctx context.Context, id string, req StockApprovalRequest) (*model.StockTransferRequest, error)
	ApproveAsManager(ctx context.Context, id string, req StockApprovalRequest) (*model.StockTransferRequest, error)
	Fulfill(ctx context.Context, id string, req FulfillStockRequest) (*model.StockTransferRequest, error)
	GateVerify(ctx context.Context, id string, req GateVerifyRequest) (*model.StockTransferRequest, error)
	ConfirmDelivery(ctx context.Context, id string, req ConfirmDeliveryRequest) (*model.StockTransferRequest, error)
	Dispatch(ctx context.Context, id string, req DispatchRequest) (*model.StockTransferRequest, error)
	Cancel(ctx context.Context, id string, req CancelStockRequest) (*model.StockTransferRequest, error)
	GetByID(ctx context.Context, id string) (*model.StockTransferRequest, error)
	List(ctx context.Context, filter repository.StockRequestFilter) ([]model.StockTransferRequest, error)
}

type stockTransferService struct {
	stockRepo     repository.StockRequestRepository
	inventoryRepo repository.InventoryRepository
	activityRepo  repository.ActivityRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	logger        *zap.Logger
}

func NewStockTransferService(
	stockRepo repository.StockRequestRepository,
	inventoryRepo repository.InventoryRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) StockTransferService {
	return &stockTransferService{
		stockRepo:     stockRepo,
		inventoryRepo: inventoryRepo,
		activityRepo:  activityRepo,
		txManager:     txManager,
		hub:           hub,
		logger:        logger,
	}
}

// --- Implementation ---

// Create normalizes the requested quantity to kilograms using the package-size
// descriptor and seeds the workflow history with its first entry.
func (s *stockTransferService) Create(ctx context.Context, req CreateStockRequest) (*model.StockTransferRequest, error) {
	packageSize := defaultString(req.PackageSize, "50kg")
	kgPerPackage := unitparse.KilogramsPerPackage(packageSize)

	var quantityKg, totalWeight decimal.Decimal
	if req.QuantityKg != nil {
		quantityKg = *req.QuantityKg
		totalWeight = quantityKg
	} else {
		quantityKg = req.Quantity.Mul(kgPerPackage)
		totalWeight = quantityKg
	}

	productID := uuid.New()
	if parsed, err := uuid.Parse(req.ProductID); err == nil {
		productID = parsed
	}

	now := time.Now().UTC()
	request := &model.StockTransferRequest{
		SourceBranch:         req.SourceBranch,
		DestinationBranch:    req.DestinationBranch,
		ProductID:            productID,
		ProductName:          req.ProductName,
		PackageSize:          packageSize,
		Quantity:             req.Quantity,
		QuantityKg:           quantityKg,
		TotalWeight:          totalWeight,
		Urgency:              defaultString(req.Urgency, "normal"),
		Reason:               req.Reason,
		RequestedBy:          req.RequestedBy,
		BatchID:              req.BatchID,
		Status:               model.TransferPendingAdminApproval,
		IsCustomerDelivery:   req.IsCustomerDelivery,
		CustomerInfo:         req.CustomerInfo,
		CustomerOrderDetails: req.CustomerOrderDetails,
		RequestedAt:          now,
		WorkflowHistory: model.WorkflowHistory{{
			Stage:     model.StageCreated,
			Timestamp: now,
			By:        req.RequestedBy,
			Status:    model.TransferPendingAdminApproval.String(),
		}},
	}
	if req.IsCustomerDelivery {
		pending := model.DispatchPending
		request.DispatchStatus = &pending
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.stockRepo.NextRequestNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate request number: %w", numErr)
		}
		request.RequestNumber = number

		if createErr := s.stockRepo.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create stock request: %w", createErr)
		}

		activity := &model.ActivityLog{
			Role:        "Sales",
			Action:      model.ActionStockRequest,
			Description: fmt.Sprintf("Created stock request %s (%s kg of %s)", number, quantityKg.StringFixed(2), req.ProductName),
			Branch:      req.SourceBranch,
			UserName:    req.RequestedBy,
		}
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock request created",
		zap.String("request_number", request.RequestNumber),
		zap.String("quantity_kg", quantityKg.StringFixed(2)),
		zap.Bool("customer_delivery", req.IsCustomerDelivery))
	publishEvent(s.hub, "stock_request_created", request.RequestNumber, request.Status.String(), req.RequestedBy)

	return request, nil
}

// ApproveAsAdmin reserves the inventory logically; no quantities move until fulfillment.
func (s *stockTransferService) ApproveAsAdmin(ctx context.Context, id string, req StockApprovalRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.ApprovedBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.Status.CanTransitionTo(model.TransferPendingManagerApproval) {
			return nil, fmt.Errorf("%w: cannot admin-approve a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		r.Status = model.TransferPendingManagerApproval
		r.InventoryReserved = true
		r.AdminApprovedAt = &now
		r.AdminApprovedBy = req.ApprovedBy
		r.AdminNotes = req.Notes
		r.AppendHistory(model.WorkflowEntry{
			Stage:     model.StageAdminApproval,
			Timestamp: now,
			By:        req.ApprovedBy,
			Status:    r.Status.String(),
			Notes:     req.Notes,
		})

		return &model.ActivityLog{
			Role:        "Admin",
			Action:      model.ActionApproval,
			Description: fmt.Sprintf("Approved stock request %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.ApprovedBy,
		}, nil
	})
}

// ApproveAsManager is purely authorizational; it has no inventory effect.
func (s *stockTransferService) ApproveAsManager(ctx context.Context, id string, req StockApprovalRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.ApprovedBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.Status.CanTransitionTo(model.TransferPendingFulfillment) {
			return nil, fmt.Errorf("%w: cannot manager-approve a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		r.Status = model.TransferPendingFulfillment
		r.ManagerApprovedAt = &now
		r.ManagerApprovedBy = req.ApprovedBy
		r.ManagerNotes = req.Notes
		r.AppendHistory(model.WorkflowEntry{
			Stage:     model.StageManagerApproval,
			Timestamp: now,
			By:        req.ApprovedBy,
			Status:    r.Status.String(),
			Notes:     req.Notes,
		})

		return &model.ActivityLog{
			Role:        "Manager",
			Action:      model.ActionApproval,
			Description: fmt.Sprintf("Approved stock request %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.ApprovedBy,
		}, nil
	})
}

// Fulfill performs the actual inventory deduction. The deduction and the status
// transition commit in the same transaction, and the inventory_deducted flag keeps a
// replayed Fulfill from deducting twice.
func (s *stockTransferService) Fulfill(ctx context.Context, id string, req FulfillStockRequest) (*model.StockTransferRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var request *model.StockTransferRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.stockRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if !r.Status.CanTransitionTo(model.TransferReadyForPickup) {
			return fmt.Errorf("%w: cannot fulfill a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		deducted := r.InventoryDeducted
		if !deducted && r.QuantityKg.IsPositive() && r.SourceBranch != "" && r.ProductName != "" {
			ok, dedErr := s.inventoryRepo.Deduct(txCtx, r.ProductName, r.SourceBranch, r.QuantityKg)
			if dedErr != nil {
				return fmt.Errorf("failed to deduct inventory: %w", dedErr)
			}
			deducted = ok
		}

		now := time.Now().UTC()
		r.Status = model.TransferReadyForPickup
		r.InventoryDeducted = deducted
		r.FulfilledAt = &now
		r.FulfilledBy = req.FulfilledBy
		r.FulfillmentNotes = req.Notes
		r.AppendHistory(model.WorkflowEntry{
			Stage:             model.StageFulfillment,
			Timestamp:         now,
			By:                req.FulfilledBy,
			Status:            r.Status.String(),
			Notes:             req.Notes,
			InventoryDeducted: &deducted,
		})

		if updErr := s.stockRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		activity := &model.ActivityLog{
			Role:        "StoreKeeper",
			Action:      model.ActionFulfillment,
			Description: fmt.Sprintf("Fulfilled stock request %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.FulfilledBy,
		}
		request = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock request fulfilled",
		zap.String("request_number", request.RequestNumber),
		zap.Bool("inventory_deducted", request.InventoryDeducted))
	publishEvent(s.hub, "stock_request_fulfilled", request.RequestNumber, request.Status.String(), req.FulfilledBy)

	return request, nil
}

// GateVerify releases the goods for transport after checking the vehicle and driver.
func (s *stockTransferService) GateVerify(ctx context.Context, id string, req GateVerifyRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.VerifiedBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.Status.CanTransitionTo(model.TransferInTransit) {
			return nil, fmt.Errorf("%w: cannot gate-verify a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		r.Status = model.TransferInTransit
		r.GateVerifiedAt = &now
		r.VerifiedBy = req.VerifiedBy
		r.GatePassNumber = req.GatePassNumber
		r.VehicleNumber = req.VehicleNumber
		r.DriverName = req.DriverName
		r.AppendHistory(model.WorkflowEntry{
			Stage:     model.StageGateVerification,
			Timestamp: now,
			By:        req.VerifiedBy,
			Status:    r.Status.String(),
			Notes:     req.Notes,
			GatePass:  req.GatePassNumber,
		})

		return &model.ActivityLog{
			Role:        "Guard",
			Action:      model.ActionGateVerification,
			Description: fmt.Sprintf("Verified stock request %s for delivery", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.VerifiedBy,
		}, nil
	})
}

// ConfirmDelivery records the received quantity and condition so short or damaged
// deliveries stay visible in the history, then closes out the transfer.
func (s *stockTransferService) ConfirmDelivery(ctx context.Context, id string, req ConfirmDeliveryRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.ConfirmedBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.Status.CanTransitionTo(model.TransferConfirmed) {
			return nil, fmt.Errorf("%w: cannot confirm delivery of a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		condition := defaultString(req.Condition, "good")
		r.Status = model.TransferConfirmed
		r.DeliveredAt = &now
		r.ConfirmedBy = req.ConfirmedBy
		r.ReceivedQuantity = req.ReceivedQuantity
		r.Condition = condition
		r.DeliveryNotes = req.Notes
		r.AppendHistory(model.WorkflowEntry{
			Stage:            model.StageDeliveryConfirmation,
			Timestamp:        now,
			By:               req.ConfirmedBy,
			Status:           r.Status.String(),
			Notes:            req.Notes,
			ReceivedQuantity: req.ReceivedQuantity,
			Condition:        condition,
		})

		return &model.ActivityLog{
			Role:        "Sales",
			Action:      model.ActionDeliveryConfirm,
			Description: fmt.Sprintf("Confirmed delivery of stock request %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.ConfirmedBy,
		}, nil
	})
}

// Dispatch flips the customer-delivery sub-lifecycle; the main approval chain is not
// touched. Only requests flagged as customer deliveries can be dispatched.
func (s *stockTransferService) Dispatch(ctx context.Context, id string, req DispatchRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.DispatchedBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.IsCustomerDelivery {
			return nil, apperror.ErrNotACustomerDelivery
		}

		dispatched := model.DispatchDispatched
		r.DispatchStatus = &dispatched
		r.DispatchedAt = &now
		r.DispatchedBy = req.DispatchedBy
		r.DispatchDriverName = req.DriverName
		r.DispatchVehicle = req.VehicleNumber
		r.ExpectedDeliveryTime = req.ExpectedDeliveryTime
		r.DispatchNotes = req.Notes
		r.AppendHistory(model.WorkflowEntry{
			Stage:     model.StageDispatched,
			Timestamp: now,
			By:        req.DispatchedBy,
			Status:    model.DispatchDispatched,
			Notes:     req.Notes,
		})

		return &model.ActivityLog{
			Role:        "Manager",
			Action:      model.ActionCustomerDispatch,
			Description: fmt.Sprintf("Dispatched customer delivery %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.DispatchedBy,
		}, nil
	})
}

// Cancel terminates the transfer from any non-confirmed state.
func (s *stockTransferService) Cancel(ctx context.Context, id string, req CancelStockRequest) (*model.StockTransferRequest, error) {
	return s.transition(ctx, id, req.CancelledBy, func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error) {
		if !r.Status.CanTransitionTo(model.TransferCancelled) {
			return nil, fmt.Errorf("%w: cannot cancel a stock request in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		r.Status = model.TransferCancelled
		r.CancelledAt = &now
		r.CancelledBy = req.CancelledBy
		r.CancellationReason = req.Reason
		r.AppendHistory(model.WorkflowEntry{
			Stage:     model.StageCancelled,
			Timestamp: now,
			By:        req.CancelledBy,
			Status:    r.Status.String(),
			Notes:     req.Reason,
		})

		return &model.ActivityLog{
			Role:        "System",
			Action:      model.ActionCancellation,
			Description: fmt.Sprintf("Cancelled stock request %s", r.RequestNumber),
			Branch:      r.SourceBranch,
			UserName:    req.CancelledBy,
		}, nil
	})
}

func (s *stockTransferService) GetByID(ctx context.Context, id string) (*model.StockTransferRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}
	return s.stockRepo.FindByID(ctx, reqID)
}

func (s *stockTransferService) List(ctx context.Context, filter repository.StockRequestFilter) ([]model.StockTransferRequest, error) {
	return s.stockRepo.List(ctx, filter)
}

// --- Helpers ---

// transition runs the common guarded read-mutate-write cycle: load, apply the
// mutation (which also appends the history entry), persist with a version check, and
// log the activity in the same transaction.
func (s *stockTransferService) transition(
	ctx context.Context,
	id string,
	actor string,
	mutate func(r *model.StockTransferRequest, now time.Time) (*model.ActivityLog, error),
) (*model.StockTransferRequest, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var request *model.StockTransferRequest
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.stockRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		now := time.Now().UTC()
		activity, mutErr := mutate(r, now)
		if mutErr != nil {
			return mutErr
		}

		if updErr := s.stockRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		request = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.hub, "stock_request_updated", request.RequestNumber, request.Status.String(), actor)
	return request, nil
}
