package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatusCompleted is the only status a payment record is ever written with;
// failed payments never persist.
const PaymentStatusCompleted = "completed"

// Payment records a finance payout against an approved purchase requisition. The
// amount is copied from the requisition's estimated cost at processing time.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequisitionID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"requisition_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	BankName        string          `gorm:"type:varchar(255)" json:"bank_name"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number"`
	ProcessedBy     string          `gorm:"type:varchar(255);not null" json:"processed_by"`
	ProcessedAt     time.Time       `gorm:"not null" json:"processed_at"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Status          string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}
