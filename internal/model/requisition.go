package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequisitionStatus is the lifecycle state of a purchase requisition.
type RequisitionStatus string

const (
	RequisitionPendingAdminApproval RequisitionStatus = "pending_admin_approval"
	RequisitionPendingOwnerApproval RequisitionStatus = "pending_owner_approval"
	RequisitionAdminApproved        RequisitionStatus = "admin_approved"
	RequisitionOwnerApproved        RequisitionStatus = "owner_approved"
	RequisitionCompleted            RequisitionStatus = "completed"
	RequisitionRejected             RequisitionStatus = "rejected"
)

// NextStepFinancePayment is stamped after either approval tier signs off.
const NextStepFinancePayment = "finance_payment"

// IsValid checks if the status is a known RequisitionStatus
func (s RequisitionStatus) IsValid() bool {
	switch s {
	case RequisitionPendingAdminApproval, RequisitionPendingOwnerApproval,
		RequisitionAdminApproved, RequisitionOwnerApproved,
		RequisitionCompleted, RequisitionRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted
func (s RequisitionStatus) IsTerminal() bool {
	return s == RequisitionCompleted || s == RequisitionRejected
}

// String returns the string representation of RequisitionStatus
func (s RequisitionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Rejection is reachable from every non-terminal state; completion only from
// one of the two approved states.
func (s RequisitionStatus) CanTransitionTo(target RequisitionStatus) bool {
	switch s {
	case RequisitionPendingAdminApproval:
		return target == RequisitionAdminApproved || target == RequisitionRejected
	case RequisitionPendingOwnerApproval:
		return target == RequisitionOwnerApproved || target == RequisitionRejected
	case RequisitionAdminApproved, RequisitionOwnerApproved:
		return target == RequisitionCompleted || target == RequisitionRejected
	case RequisitionCompleted, RequisitionRejected:
		return false
	}
	return false
}

// Routing tiers for purchase requisitions
const (
	RoutingAdmin = "admin"
	RoutingOwner = "owner"
)

// PurchaseRequisition is a purchase request moving through the admin/owner approval
// chain toward finance payment. Routing and the admin threshold are snapshotted at
// creation so later threshold changes never re-route an existing request.
type PurchaseRequisition struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"request_number"`
	Description   string          `gorm:"type:text" json:"description"`
	ItemName      string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity      int             `gorm:"type:int;not null;default:1" json:"quantity"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	EstimatedCost decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"estimated_cost"`
	SupplierName  string          `gorm:"type:varchar(255)" json:"supplier_name"`
	VendorContact string          `gorm:"type:varchar(255)" json:"vendor_contact"`
	RequestedBy   string          `gorm:"type:varchar(255);not null" json:"requested_by"`
	BranchID      string          `gorm:"type:varchar(100);index" json:"branch_id"`
	Urgency       string          `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	Notes         string          `gorm:"type:text" json:"notes"`
	PurchaseType  string          `gorm:"type:varchar(20);not null;default:'cash'" json:"purchase_type"`
	Category      string          `gorm:"type:varchar(50);not null;default:'general'" json:"category"`
	PaymentSource string          `gorm:"type:varchar(30);not null;default:'finance'" json:"payment_source"` // sales_revenue or finance
	BatchID       *string         `gorm:"type:varchar(100);index" json:"batch_id"`

	Status         RequisitionStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	Routing        string            `gorm:"type:varchar(10);not null" json:"routing"`         // admin or owner
	AdminThreshold decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"admin_threshold"` // threshold snapshot at creation
	NextStep       string            `gorm:"type:varchar(30)" json:"next_step,omitempty"`

	AdminApprovedAt *time.Time `json:"admin_approved_at,omitempty"`
	AdminApprovedBy string     `gorm:"type:varchar(255)" json:"admin_approved_by,omitempty"`
	AdminNotes      string     `gorm:"type:text" json:"admin_notes,omitempty"`
	OwnerApprovedAt *time.Time `json:"owner_approved_at,omitempty"`
	OwnerApprovedBy string     `gorm:"type:varchar(255)" json:"owner_approved_by,omitempty"`
	OwnerNotes      string     `gorm:"type:text" json:"owner_notes,omitempty"`

	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedBy      string     `gorm:"type:varchar(255)" json:"rejected_by,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	PaymentID   *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Version     int64     `gorm:"not null;default:0" json:"version"`
	RequestedAt time.Time `gorm:"not null" json:"requested_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
