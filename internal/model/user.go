package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory staff roles. Each maps to one station in the approval chains.
const (
	RoleSales       = "sales"
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RoleOwner       = "owner"
	RoleFinance     = "finance"
	RoleStorekeeper = "storekeeper"
	RoleGuard       = "guard"
)

// ValidRole reports whether role is one of the factory staff roles
func ValidRole(role string) bool {
	switch role {
	case RoleSales, RoleAdmin, RoleManager, RoleOwner, RoleFinance, RoleStorekeeper, RoleGuard:
		return true
	}
	return false
}

// User represents a staff account able to act on the workflows
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role      string         `gorm:"type:varchar(50);not null" json:"role"`
	BranchID  string         `gorm:"type:varchar(100)" json:"branch_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
