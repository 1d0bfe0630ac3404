package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is the stock of one product at one branch, in kilograms. The quantity
// is mutated only through a single atomic UPDATE (fulfillment deduction), never by
// read-modify-write.
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_inventory_product_branch" json:"name"`
	BranchID  string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_inventory_product_branch" json:"branch_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"quantity"`
	Unit      string          `gorm:"type:varchar(20);not null;default:'kg'" json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
