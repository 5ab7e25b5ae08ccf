package repository

import (
	"context"

	"github.com/solanoize/optika-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockAdjustmentRepository interface {
	CreateTx(tx *gorm.DB, a *model.StockAdjustment) error
	List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.StockAdjustment, int64, error)
}

type stockAdjustmentRepo struct{ db *gorm.DB }

func NewStockAdjustmentRepository(db *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: db}
}

func (r *stockAdjustmentRepo) CreateTx(tx *gorm.DB, a *model.StockAdjustment) error {
	return tx.Create(a).Error
}

func (r *stockAdjustmentRepo) List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.StockAdjustment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockAdjustment{}).Preload("Product").Preload("User")
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var adjustments []model.StockAdjustment
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&adjustments).Error
	return adjustments, total, err
}
