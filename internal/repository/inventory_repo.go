package repository

import (
	"context"

	"flourerp/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByProductAndBranch(ctx context.Context, productName, branchID string) (*model.InventoryItem, error)
	List(ctx context.Context, branchID string) ([]model.InventoryItem, error)
	// Deduct decrements the matching row's quantity in a single UPDATE and reports
	// whether a row matched. No read-modify-write, so concurrent writers cannot
	// lose updates.
	Deduct(ctx context.Context, productName, branchID string, quantityKg decimal.Decimal) (bool, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) FindByProductAndBranch(ctx context.Context, productName, branchID string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := GetDB(ctx, r.db).First(&item, "name = ? AND branch_id = ?", productName, branchID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, branchID string) ([]model.InventoryItem, error) {
	query := GetDB(ctx, r.db).Model(&model.InventoryItem{})
	if branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var items []model.InventoryItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) Deduct(ctx context.Context, productName, branchID string, quantityKg decimal.Decimal) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.InventoryItem{}).
		Where("name = ? AND branch_id = ?", productName, branchID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantityKg))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
