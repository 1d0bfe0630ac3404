package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions written by the workflow services
const (
	ActionPurchaseRequest  = "purchase_request"
	ActionStockRequest     = "stock_request"
	ActionApproval         = "approval"
	ActionRejection        = "rejection"
	ActionPayment          = "payment"
	ActionFulfillment      = "fulfillment"
	ActionGateVerification = "gate_verification"
	ActionDeliveryConfirm  = "delivery_confirmation"
	ActionCustomerDispatch = "customer_dispatch"
	ActionCancellation     = "cancellation"
	ActionSettingsUpdate   = "settings_update"
)

// ActivityLog is the append-only record of who did what across the workflows. Rows are
// only ever inserted.
type ActivityLog struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Role        string    `gorm:"type:varchar(50);not null;index" json:"role"`
	Action      string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Branch      string    `gorm:"type:varchar(100);index" json:"branch,omitempty"`
	UserName    string    `gorm:"type:varchar(255)" json:"user_name,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
