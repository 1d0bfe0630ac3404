package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a stock transfer request.
type TransferStatus string

const (
	TransferPendingAdminApproval   TransferStatus = "pending_admin_approval"
	TransferPendingManagerApproval TransferStatus = "pending_manager_approval"
	TransferPendingFulfillment     TransferStatus = "pending_fulfillment"
	TransferReadyForPickup         TransferStatus = "ready_for_pickup"
	TransferInTransit              TransferStatus = "in_transit"
	TransferConfirmed              TransferStatus = "confirmed"
	TransferCancelled              TransferStatus = "cancelled"
)

// Dispatch sub-lifecycle for customer deliveries, independent of the main status.
const (
	DispatchPending    = "pending_dispatch"
	DispatchDispatched = "dispatched"
)

// Workflow history stage names
const (
	StageCreated              = "created"
	StageAdminApproval        = "admin_approval"
	StageManagerApproval      = "manager_approval"
	StageFulfillment          = "fulfillment"
	StageGateVerification     = "gate_verification"
	StageDeliveryConfirmation = "delivery_confirmation"
	StageDispatched           = "dispatched"
	StageCancelled            = "cancelled"
)

// IsValid checks if the status is a known TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferPendingAdminApproval, TransferPendingManagerApproval, TransferPendingFulfillment,
		TransferReadyForPickup, TransferInTransit, TransferConfirmed, TransferCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted
func (s TransferStatus) IsTerminal() bool {
	return s == TransferConfirmed || s == TransferCancelled
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The chain is linear; cancellation is reachable from every non-confirmed state.
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	if target == TransferCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case TransferPendingAdminApproval:
		return target == TransferPendingManagerApproval
	case TransferPendingManagerApproval:
		return target == TransferPendingFulfillment
	case TransferPendingFulfillment:
		return target == TransferReadyForPickup
	case TransferReadyForPickup:
		return target == TransferInTransit
	case TransferInTransit:
		return target == TransferConfirmed
	case TransferConfirmed, TransferCancelled:
		return false
	}
	return false
}

// WorkflowEntry is one append-only audit record of a transition. Status mirrors the
// record's main status immediately after the transition (dispatch entries record the
// dispatch sub-status instead).
type WorkflowEntry struct {
	Stage             string           `json:"stage"`
	Timestamp         time.Time        `json:"timestamp"`
	By                string           `json:"by"`
	Status            string           `json:"status"`
	Notes             string           `json:"notes,omitempty"`
	InventoryDeducted *bool            `json:"inventory_deducted,omitempty"`
	GatePass          string           `json:"gate_pass,omitempty"`
	ReceivedQuantity  *decimal.Decimal `json:"received_quantity,omitempty"`
	Condition         string           `json:"condition,omitempty"`
}

// WorkflowHistory is stored as a single JSONB column; entries are only ever appended.
type WorkflowHistory []WorkflowEntry

// Value implements driver.Valuer for JSONB storage
func (h WorkflowHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (h *WorkflowHistory) Scan(value interface{}) error {
	if value == nil {
		*h = WorkflowHistory{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("unsupported type for WorkflowHistory")
	}
	return json.Unmarshal(b, h)
}

// StockTransferRequest moves inventory between branches or out to a customer. Every
// transition appends a WorkflowEntry; inventory_reserved / inventory_deducted gate the
// inventory side effects so they run at most once.
type StockTransferRequest struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"request_number"`
	SourceBranch      string          `gorm:"type:varchar(100);not null;index" json:"source_branch"`
	DestinationBranch string          `gorm:"type:varchar(100)" json:"destination_branch"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName       string          `gorm:"type:varchar(255);not null" json:"product_name"`
	PackageSize       string          `gorm:"type:varchar(20);not null;default:'50kg'" json:"package_size"`
	Quantity          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`     // number of packages
	QuantityKg        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity_kg"`  // normalized to kilograms
	TotalWeight       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_weight"` // equals quantity * package size
	Urgency           string          `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	Reason            string          `gorm:"type:text" json:"reason"`
	RequestedBy       string          `gorm:"type:varchar(255);not null" json:"requested_by"`
	BatchID           *string         `gorm:"type:varchar(100);index" json:"batch_id"`

	Status            TransferStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	InventoryReserved bool           `gorm:"not null;default:false" json:"inventory_reserved"`
	InventoryDeducted bool           `gorm:"not null;default:false" json:"inventory_deducted"`

	AdminApprovedAt   *time.Time `json:"admin_approved_at,omitempty"`
	AdminApprovedBy   string     `gorm:"type:varchar(255)" json:"admin_approved_by,omitempty"`
	AdminNotes        string     `gorm:"type:text" json:"admin_notes,omitempty"`
	ManagerApprovedAt *time.Time `json:"manager_approved_at,omitempty"`
	ManagerApprovedBy string     `gorm:"type:varchar(255)" json:"manager_approved_by,omitempty"`
	ManagerNotes      string     `gorm:"type:text" json:"manager_notes,omitempty"`

	FulfilledAt      *time.Time `json:"fulfilled_at,omitempty"`
	FulfilledBy      string     `gorm:"type:varchar(255)" json:"fulfilled_by,omitempty"`
	FulfillmentNotes string     `gorm:"type:text" json:"fulfillment_notes,omitempty"`

	GateVerifiedAt *time.Time `json:"gate_verified_at,omitempty"`
	VerifiedBy     string     `gorm:"type:varchar(255)" json:"verified_by,omitempty"`
	GatePassNumber string     `gorm:"type:varchar(100)" json:"gate_pass_number,omitempty"`
	VehicleNumber  string     `gorm:"type:varchar(100)" json:"vehicle_number,omitempty"`
	DriverName     string     `gorm:"type:varchar(255)" json:"driver_name,omitempty"`

	DeliveredAt      *time.Time       `json:"delivered_at,omitempty"`
	ConfirmedBy      string           `gorm:"type:varchar(255)" json:"confirmed_by,omitempty"`
	ReceivedQuantity *decimal.Decimal `gorm:"type:decimal(14,2)" json:"received_quantity,omitempty"`
	Condition        string           `gorm:"type:varchar(50)" json:"condition,omitempty"`
	DeliveryNotes    string           `gorm:"type:text" json:"delivery_notes,omitempty"`

	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `gorm:"type:varchar(255)" json:"cancelled_by,omitempty"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`

	// Customer delivery branch
	IsCustomerDelivery   bool    `gorm:"not null;default:false;index" json:"is_customer_delivery"`
	CustomerInfo         *string `gorm:"type:jsonb" json:"customer_info,omitempty"`
	CustomerOrderDetails *string `gorm:"type:jsonb" json:"customer_order_details,omitempty"`
	DispatchStatus       *string `gorm:"type:varchar(30);index" json:"dispatch_status,omitempty"`
	DispatchedAt         *time.Time `json:"dispatched_at,omitempty"`
	DispatchedBy         string     `gorm:"type:varchar(255)" json:"dispatched_by,omitempty"`
	DispatchDriverName   string     `gorm:"type:varchar(255)" json:"dispatch_driver_name,omitempty"`
	DispatchVehicle      string     `gorm:"type:varchar(100)" json:"dispatch_vehicle,omitempty"`
	ExpectedDeliveryTime *time.Time `json:"expected_delivery_time,omitempty"`
	DispatchNotes        string     `gorm:"type:text" json:"dispatch_notes,omitempty"`

	WorkflowHistory WorkflowHistory `gorm:"type:jsonb;not null" json:"workflow_history"`

	Version     int64     `gorm:"not null;default:0" json:"version"`
	RequestedAt time.Time `gorm:"not null" json:"requested_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AppendHistory adds one transition record. History is append-only; nothing ever
// rewrites or removes earlier entries.
func (r *StockTransferRequest) AppendHistory(entry WorkflowEntry) {
	r.WorkflowHistory = append(r.WorkflowHistory, entry)
}
