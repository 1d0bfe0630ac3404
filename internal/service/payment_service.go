package service

import (
	"context"
	"fmt"
	"time"

	"flourerp/internal/apperror"
	"flourerp/internal/model"
	"flourerp/internal/repository"
	ws "flourerp/internal/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type ProcessPaymentRequest struct {
	PaymentMethod   string `json:"payment_method" binding:"required"`
	BankName        string `json:"bank_name"`
	ReferenceNumber string `json:"reference_number"`
	ProcessedBy     string `json:"processed_by" binding:"required"`
	Notes           string `json:"notes"`
}

// --- Interface ---

type PaymentService interface {
	// ProcessPayment pays out an approved requisition and completes it. This is the
	// only transition with two valid entry states (admin_approved, owner_approved).
	ProcessPayment(ctx context.Context, requisitionID string, req ProcessPaymentRequest) (*model.Payment, error)
	List(ctx context.Context, limit int) ([]model.Payment, error)
}

type paymentService struct {
	paymentRepo     repository.PaymentRepository
	requisitionRepo repository.RequisitionRepository
	activityRepo    repository.ActivityRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
	logger          *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	requisitionRepo repository.RequisitionRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:     paymentRepo,
		requisitionRepo: requisitionRepo,
		activityRepo:    activityRepo,
		txManager:       txManager,
		hub:             hub,
		logger:          logger,
	}
}

// --- Implementation ---

func (s *paymentService) ProcessPayment(ctx context.Context, requisitionID string, req ProcessPaymentRequest) (*model.Payment, error) {
	reqID, err := uuid.Parse(requisitionID)
	if err != nil {
		return nil, apperror.ErrNotFound
	}

	var payment *model.Payment
	var requisition *model.PurchaseRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, findErr := s.requisitionRepo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if r.Status != model.RequisitionAdminApproved && r.Status != model.RequisitionOwnerApproved {
			return fmt.Errorf("%w: current status %s", apperror.ErrNotApproved, r.Status)
		}

		now := time.Now().UTC()
		p := &model.Payment{
			RequisitionID:   r.ID,
			Amount:          r.EstimatedCost,
			PaymentMethod:   req.PaymentMethod,
			BankName:        req.BankName,
			ReferenceNumber: req.ReferenceNumber,
			ProcessedBy:     req.ProcessedBy,
			ProcessedAt:     now,
			Notes:           req.Notes,
			Status:          model.PaymentStatusCompleted,
		}
		if createErr := s.paymentRepo.Create(txCtx, p); createErr != nil {
			return fmt.Errorf("failed to create payment record: %w", createErr)
		}

		r.Status = model.RequisitionCompleted
		r.PaymentID = &p.ID
		r.CompletedAt = &now
		if updErr := s.requisitionRepo.UpdateVersioned(txCtx, r); updErr != nil {
			return updErr
		}

		approvalSource := "Admin"
		if r.OwnerApprovedAt != nil {
			approvalSource = "Owner"
		}
		activity := &model.ActivityLog{
			Role:   "Finance",
			Action: model.ActionPayment,
			Description: fmt.Sprintf("Processed payment for %s (Br %s) - %s approved",
				r.RequestNumber, r.EstimatedCost.StringFixed(2), approvalSource),
			Branch:   r.BranchID,
			UserName: req.ProcessedBy,
		}
		payment = p
		requisition = r
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment processed",
		zap.String("request_number", requisition.RequestNumber),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)))
	publishEvent(s.hub, "purchase_requisition_completed", requisition.RequestNumber, requisition.Status.String(), req.ProcessedBy)

	return payment, nil
}

func (s *paymentService) List(ctx context.Context, limit int) ([]model.Payment, error) {
	return s.paymentRepo.List(ctx, limit)
}
