package repository

import (
	"context"

	"flourerp/internal/apperror"
	"flourerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequisitionFilter narrows List results
type RequisitionFilter struct {
	Status   string
	BranchID string
	Limit    int
}

type RequisitionRepository interface {
	Create(ctx context.Context, req *model.PurchaseRequisition) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequisition, error)
	List(ctx context.Context, filter RequisitionFilter) ([]model.PurchaseRequisition, error)
	UpdateVersioned(ctx context.Context, req *model.PurchaseRequisition) error
	NextRequestNumber(ctx context.Context) (string, error)
}

type requisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) RequisitionRepository {
	return &requisitionRepository{db: db}
}

func (r *requisitionRepository) Create(ctx context.Context, req *model.PurchaseRequisition) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseRequisition, error) {
	var req model.PurchaseRequisition
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *requisitionRepository) List(ctx context.Context, filter RequisitionFilter) ([]model.PurchaseRequisition, error) {
	query := GetDB(ctx, r.db).Model(&model.PurchaseRequisition{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BranchID != "" {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var requisitions []model.PurchaseRequisition
	if err := query.Order("requested_at DESC").Limit(limit).Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// UpdateVersioned writes the full record guarded by the version it was read at.
// A zero-row update means another writer got there first.
func (r *requisitionRepository) UpdateVersioned(ctx context.Context, req *model.PurchaseRequisition) error {
	expected := req.Version
	req.Version = expected + 1

	res := GetDB(ctx, r.db).Model(&model.PurchaseRequisition{}).
		Where("id = ? AND version = ?", req.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(req)
	if res.Error != nil {
		req.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		req.Version = expected
		return apperror.ErrConflict
	}
	return nil
}

func (r *requisitionRepository) NextRequestNumber(ctx context.Context) (string, error) {
	return nextRequestNumber(GetDB(ctx, r.db), "purchase_requisitions", "PR")
}
