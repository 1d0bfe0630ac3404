package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flourerp/internal/apperror"
	"flourerp/internal/model"
	"flourerp/internal/repository"
	"flourerp/internal/routing"
	ws "flourerp/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateRequisitionRequest struct {
	Description   string          `json:"description"`
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	EstimatedCost decimal.Decimal `json:"estimated_cost" binding:"required"`
	SupplierName  string          `json:"supplier_name"`
	VendorContact string          `json:"vendor_contact"`
	RequestedBy   string          `json:"requested_by" binding:"required"`
	BranchID      string          `json:"branch_id"`
	Urgency       string          `json:"urgency"`
	Notes         string          `json:"notes"`
	PurchaseType  string          `json:"purchase_type"`
	Category      string          `json:"category"`
	PaymentSource string          `json:"payment_source"`
	BatchID       *string         `json:"batch_id"`
}

type ApproveRequisitionRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
	Notes      string `json:"notes"`
}

type RejectRequisitionRequest struct {
	RejectedBy string `json:"rejected_by" binding:"required"`
	Reason     string `json:"reason"`
}

// --- Interface ---

type RequisitionService interface {
	Create(ctx context.Context, req CreateRequisitionRequest) (*model.PurchaseRequisition, error)
	ApproveAsAdmin(ctx context.Context, id string, req ApproveRequisitionRequest) (*model.PurchaseRequisition, error)
	ApproveAsOwner(ctx context.Context, id string, req ApproveRequisitionRequest) (*model.PurchaseRequisition, error)
	Reject(ctx context.Context, id string, req RejectRequisitionRequest) (*model.PurchaseRequisition, error)
	GetByID(ctx context.Context, id string) (*model.PurchaseRequisition, error)
	List(ctx context.Context, filter repository.RequisitionFilter) ([]model.PurchaseRequisition, error)
}

type requisitionService struct {
	requisitionRepo repository.RequisitionRepository
	controlsRepo    repository.ControlsRepository
	activityRepo    repository.ActivityRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
	logger          *zap.Logger
}

func NewRequisitionService(
	requisitionRepo repository.RequisitionRepository,
	controlsRepo repository.ControlsRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) RequisitionService {
	return &requisitionService{
		requisitionRepo: requisitionRepo,
		controlsRepo:    controlsRepo,
		activityRepo:    activityRepo,
		txManager:       txManager,
		hub:             hub,
		logger:          logger,
	}
}

// --- Implementation ---

// Create routes the requisition to the admin or owner tier based on the current
// threshold and snapshots that threshold onto the record. Later threshold changes
// never alter the routing of an existing request.
func (s *requisitionService) Create(ctx context.Context, req CreateRequisitionRequest) (*model.PurchaseRequisition, error) {
	controls, err := s.controlsRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load financial controls: %w", err)
	}
	threshold := controls.AdminPurchaseApprovalThreshold

	tier := routing.Route(req.EstimatedCost, threshold)
	status := model.RequisitionPendingAdminApproval
	if tier == routing.TierOwner {
		status = model.RequisitionPendingOwnerApproval
	}

	itemName := req.ItemName
	if itemName == "" {
		itemName = req.Description
	}

	now := time.Now().UTC()
	requisition := &model.PurchaseRequisition{
		Description:    req.Description,
		ItemName:       itemName,
		Quantity:       defaultInt(req.Quantity, 1),
		Unit:           defaultString(req.Unit, "pcs"),
		EstimatedCost:  req.EstimatedCost,
		SupplierName:   req.SupplierName,
		VendorContact:  req.VendorContact,
		RequestedBy:    req.RequestedBy,
		BranchID:       req.BranchID,
		Urgency:        defaultString(req.Urgency, "normal"),
		Notes:          req.Notes,
		PurchaseType:   defaultString(req.PurchaseType, "cash"),
		Category:       defaultString(req.Category, "general"),
		PaymentSource:  defaultString(req.PaymentSource, "finance"),
		BatchID:        req.BatchID,
		Status:         status,
		Routing:        tier.String(),
		AdminThreshold: threshold,
		RequestedAt:    now,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.requisitionRepo.NextRequestNumber(txCtx)
		if numErr != nil {
			return fmt.Errorf("failed to generate request number: %w", numErr)
		}
		requisition.RequestNumber = number

		if createErr := s.requisitionRepo.Create(txCtx, requisition); createErr != nil {
			return fmt.Errorf("failed to create purchase requisition: %w", createErr)
		}

		activity := &model.ActivityLog{
			Role:   "Sales",
			Action: model.ActionPurchaseRequest,
			Description: fmt.Sprintf("Created purchase request %s (Br %s) - Routed to %s",
				number, req.EstimatedCost.StringFixed(2), strings.ToUpper(tier.String())),
			Branch:   req.BranchID,
			UserName: req.RequestedBy,
		}
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase requisition created",
		zap.String("request_number", requisition.RequestNumber),
		zap.String("routing", requisition.Routing),
		zap.String("amount", requisition.EstimatedCost.StringFixed(2)))
	publishEvent(s.hub, "purchase_requisition_created", requisition.RequestNumber, requisition.Status.String(), req.RequestedBy)

	return requisition, nil
}

// ApproveAsAdmin re-checks the snapshotted threshold before approving. A record
// routed to admin with a forged or stale routing still cannot clear an amount
// above the threshold it was created under.
func (s *requisitionService) ApproveAsAdmin(ctx context.Context, id string, req ApproveRequisitionRequest) (*model.PurchaseRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var requisition *model.PurchaseRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requisitionRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if r.Status != model.RequisitionPendingAdminApproval {
			return fmt.Errorf("%w: cannot admin-approve a requisition in status %s", apperror.ErrInvalidTransition, r.Status)
		}
		if r.EstimatedCost.GreaterThan(r.AdminThreshold) {
			return fmt.Errorf("%w: amount Br %s exceeds admin threshold Br %s",
				apperror.ErrThresholdExceeded, r.EstimatedCost.StringFixed(2), r.AdminThreshold.StringFixed(2))
		}

		now := time.Now().UTC()
		r.Status = model.RequisitionAdminApproved
		r.AdminApprovedAt = &now
		r.AdminApprovedBy = req.ApprovedBy
		r.AdminNotes = req.Notes
		r.NextStep = model.NextStepFinancePayment

		if updErr := s.requisitionRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		activity := &model.ActivityLog{
			Role:   "Admin",
			Action: model.ActionApproval,
			Description: fmt.Sprintf("Approved purchase requisition %s (Br %s) - Sent to Finance for payment",
				r.RequestNumber, r.EstimatedCost.StringFixed(2)),
			Branch:   r.BranchID,
			UserName: req.ApprovedBy,
		}
		requisition = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.hub, "purchase_requisition_approved", requisition.RequestNumber, requisition.Status.String(), req.ApprovedBy)
	return requisition, nil
}

// ApproveAsOwner has no upper bound: the owner tier approves any amount routed to it.
func (s *requisitionService) ApproveAsOwner(ctx context.Context, id string, req ApproveRequisitionRequest) (*model.PurchaseRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var requisition *model.PurchaseRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requisitionRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if r.Status != model.RequisitionPendingOwnerApproval {
			return fmt.Errorf("%w: cannot owner-approve a requisition in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		now := time.Now().UTC()
		r.Status = model.RequisitionOwnerApproved
		r.OwnerApprovedAt = &now
		r.OwnerApprovedBy = req.ApprovedBy
		r.OwnerNotes = req.Notes
		r.NextStep = model.NextStepFinancePayment

		if updErr := s.requisitionRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		activity := &model.ActivityLog{
			Role:   "Owner",
			Action: model.ActionApproval,
			Description: fmt.Sprintf("Approved purchase requisition %s (Br %s) - Sent to Finance for payment",
				r.RequestNumber, r.EstimatedCost.StringFixed(2)),
			Branch:   r.BranchID,
			UserName: req.ApprovedBy,
		}
		requisition = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.hub, "purchase_requisition_approved", requisition.RequestNumber, requisition.Status.String(), req.ApprovedBy)
	return requisition, nil
}

// Reject is allowed from any non-terminal state. Rejecting an already-terminal record
// fails loudly rather than silently succeeding.
func (s *requisitionService) Reject(ctx context.Context, id string, req RejectRequisitionRequest) (*model.PurchaseRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var requisition *model.PurchaseRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requisitionRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if r.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot reject a requisition in status %s", apperror.ErrInvalidTransition, r.Status)
		}

		now := time.Now().UTC()
		r.Status = model.RequisitionRejected
		r.RejectedAt = &now
		r.RejectedBy = req.RejectedBy
		r.RejectionReason = defaultString(req.Reason, "No reason provided")

		if updErr := s.requisitionRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		activity := &model.ActivityLog{
			Role:        "System",
			Action:      model.ActionRejection,
			Description: fmt.Sprintf("Rejected purchase requisition %s", r.RequestNumber),
			Branch:      r.BranchID,
			UserName:    req.RejectedBy,
		}
		requisition = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.hub, "purchase_requisition_rejected", requisition.RequestNumber, requisition.Status.String(), req.RejectedBy)
	return requisition, nil
}

func (s *requisitionService) GetByID(ctx context.Context, id string) (*model.PurchaseRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrNotFound
	}
	return s.requisitionRepo.FindByID(ctx, reqID)
}

func (s *requisitionService) List(ctx context.Context, filter repository.RequisitionFilter) ([]model.PurchaseRequisition, error) {
	return s.requisitionRepo.List(ctx, filter)
}

// --- Helpers ---

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
