package service

import (
	"context"
	"fmt"

	"flourerp/internal/model"
	"flourerp/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateControlsRequest patches the financial controls singleton. Nil fields are left
// unchanged. Version must match the current row or the update is rejected.
type UpdateControlsRequest struct {
	AdminPurchaseApprovalThreshold *decimal.Decimal `json:"admin_purchase_approval_threshold"`
	FinanceDailyLimit              *decimal.Decimal `json:"finance_daily_limit"`
	FinanceTransactionLimit        *decimal.Decimal `json:"finance_transaction_limit"`
	AutoApproveThreshold           *decimal.Decimal `json:"auto_approve_threshold"`
	RequireOwnerApprovalAbove      *decimal.Decimal `json:"require_owner_approval_above"`
	UpdatedBy                      string           `json:"updated_by" binding:"required"`
}

type ControlsService interface {
	Get(ctx context.Context) (*model.FinancialControls, error)
	Update(ctx context.Context, req UpdateControlsRequest) (*model.FinancialControls, error)
}

type controlsService struct {
	controlsRepo repository.ControlsRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	logger       *zap.Logger
}

func NewControlsService(
	controlsRepo repository.ControlsRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	logger *zap.Logger,
) ControlsService {
	return &controlsService{
		controlsRepo: controlsRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (s *controlsService) Get(ctx context.Context) (*model.FinancialControls, error) {
	return s.controlsRepo.GetOrCreate(ctx)
}

// Update patches the settings row. Existing requisitions keep the threshold that was
// snapshotted when they were created; only new requisitions see the new value.
func (s *controlsService) Update(ctx context.Context, req UpdateControlsRequest) (*model.FinancialControls, error) {
	var controls *model.FinancialControls
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, getErr := s.controlsRepo.GetOrCreate(txCtx)
		if getErr != nil {
			return getErr
		}

		if req.AdminPurchaseApprovalThreshold != nil {
			c.AdminPurchaseApprovalThreshold = *req.AdminPurchaseApprovalThreshold
		}
		if req.FinanceDailyLimit != nil {
			c.FinanceDailyLimit = *req.FinanceDailyLimit
		}
		if req.FinanceTransactionLimit != nil {
			c.FinanceTransactionLimit = *req.FinanceTransactionLimit
		}
		if req.AutoApproveThreshold != nil {
			c.AutoApproveThreshold = *req.AutoApproveThreshold
		}
		if req.RequireOwnerApprovalAbove != nil {
			c.RequireOwnerApprovalAbove = *req.RequireOwnerApprovalAbove
		}
		c.UpdatedBy = req.UpdatedBy

		if updErr := s.controlsRepo.UpdateVersioned(txCtx, c); updErr != nil {
			return updErr
		}

		activity := &model.ActivityLog{
			Role:   "Owner",
			Action: model.ActionSettingsUpdate,
			Description: fmt.Sprintf("Updated financial controls (admin threshold Br %s)",
				c.AdminPurchaseApprovalThreshold.StringFixed(2)),
			UserName: req.UpdatedBy,
		}
		controls = c
		return s.activityRepo.Log(txCtx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("financial controls updated",
		zap.String("admin_threshold", controls.AdminPurchaseApprovalThreshold.StringFixed(2)),
		zap.String("updated_by", req.UpdatedBy))

	return controls, nil
}
