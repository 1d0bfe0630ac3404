package repository

import (
	"context"

	"flourerp/internal/apperror"
	"flourerp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRequestFilter narrows List results
type StockRequestFilter struct {
	Status             string
	SourceBranch       string
	IsCustomerDelivery *bool
	DispatchStatus     string
	Limit              int
}

type StockRequestRepository interface {
	Create(ctx context.Context, req *model.StockTransferRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransferRequest, error)
	List(ctx context.Context, filter StockRequestFilter) ([]model.StockTransferRequest, error)
	UpdateVersioned(ctx context.Context, req *model.StockTransferRequest) error
	NextRequestNumber(ctx context.Context) (string, error)
}

type stockRequestRepository struct {
	db *gorm.DB
}

func NewStockRequestRepository(db *gorm.DB) StockRequestRepository {
	return &stockRequestRepository{db: db}
}

func (r *stockRequestRepository) Create(ctx context.Context, req *model.StockTransferRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *stockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransferRequest, error) {
	var req model.StockTransferRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *stockRequestRepository) List(ctx context.Context, filter StockRequestFilter) ([]model.StockTransferRequest, error) {
	query := GetDB(ctx, r.db).Model(&model.StockTransferRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SourceBranch != "" {
		query = query.Where("source_branch = ?", filter.SourceBranch)
	}
	if filter.IsCustomerDelivery != nil {
		query = query.Where("is_customer_delivery = ?", *filter.IsCustomerDelivery)
	}
	if filter.DispatchStatus != "" {
		query = query.Where("dispatch_status = ?", filter.DispatchStatus)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var requests []model.StockTransferRequest
	if err := query.Order("requested_at DESC").Limit(limit).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateVersioned writes the full record guarded by the version it was read at
func (r *stockRequestRepository) UpdateVersioned(ctx context.Context, req *model.StockTransferRequest) error {
	expected := req.Version
	req.Version = expected + 1

	res := GetDB(ctx, r.db).Model(&model.StockTransferRequest{}).
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

func (r *stockRequestRepository) NextRequestNumber(ctx context.Context) (string, error) {
	return nextRequestNumber(GetDB(ctx, r.db), "stock_transfer_requests", "SR")
}
