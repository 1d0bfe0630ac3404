package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAdminThreshold applies when no financial controls row exists yet.
var DefaultAdminThreshold = decimal.NewFromInt(50000)

// FinancialControls is a singleton settings row. The admin purchase approval threshold
// is read at requisition creation and snapshotted onto the requisition; updating it
// here never re-routes existing requests.
type FinancialControls struct {
	ID                              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminPurchaseApprovalThreshold  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"admin_purchase_approval_threshold"`
	FinanceDailyLimit               decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"finance_daily_limit"`
	FinanceTransactionLimit         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"finance_transaction_limit"`
	AutoApproveThreshold            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"auto_approve_threshold"`
	RequireOwnerApprovalAbove       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"require_owner_approval_above"`
	Version                         int64           `gorm:"not null;default:0" json:"version"`
	UpdatedBy                       string          `gorm:"type:varchar(255);not null;default:'system'" json:"updated_by"`
	CreatedAt                       time.Time       `json:"created_at"`
	UpdatedAt                       time.Time       `json:"updated_at"`
}

// DefaultFinancialControls returns the settings used until an operator changes them.
func DefaultFinancialControls() *FinancialControls {
	return &FinancialControls{
		AdminPurchaseApprovalThreshold: DefaultAdminThreshold,
		FinanceDailyLimit:              decimal.NewFromInt(500000),
		FinanceTransactionLimit:        decimal.NewFromInt(100000),
		AutoApproveThreshold:           decimal.NewFromInt(10000),
		RequireOwnerApprovalAbove:      decimal.NewFromInt(1000000),
		UpdatedBy:                      "system",
	}
}
