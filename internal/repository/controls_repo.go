package repository

import (
	"context"
	"errors"

	"flourerp/internal/apperror"
	"flourerp/internal/model"

	"gorm.io/gorm"
)

type ControlsRepository interface {
	// GetOrCreate returns the singleton settings row, inserting the defaults if
	// none exists yet.
	GetOrCreate(ctx context.Context) (*model.FinancialControls, error)
	UpdateVersioned(ctx context.Context, controls *model.FinancialControls) error
}

type controlsRepository struct {
	db *gorm.DB
}

func NewControlsRepository(db *gorm.DB) ControlsRepository {
	return &controlsRepository{db: db}
}

func (r *controlsRepository) GetOrCreate(ctx context.Context) (*model.FinancialControls, error) {
	var controls model.FinancialControls
	err := GetDB(ctx, r.db).First(&controls).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := model.DefaultFinancialControls()
		if createErr := GetDB(ctx, r.db).Create(defaults).Error; createErr != nil {
			return nil, createErr
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &controls, nil
}

func (r *controlsRepository) UpdateVersioned(ctx context.Context, controls *model.FinancialControls) error {
	expected := controls.Version
	controls.Version = expected + 1

	res := GetDB(ctx, r.db).Model(&model.FinancialControls{}).
		Where("id = ? AND version = ?", controls.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(controls)
	if res.Error != nil {
		controls.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		controls.Version = expected
		return apperror.ErrConflict
	}
	return nil
}
