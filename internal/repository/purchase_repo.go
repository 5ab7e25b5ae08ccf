package repository

import (
	"context"

	"github.com/solanoize/optika-api/internal/dto"
	"github.com/solanoize/optika-api/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	FindByNumber(ctx context.Context, purchaseNumber string) (*model.Purchase, error)
	ExistsByNumber(ctx context.Context, purchaseNumber string) (bool, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *purchaseRepo) FindByNumber(ctx context.Context, purchaseNumber string) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.Product").Preload("User").
		Where("purchase_number = ?", purchaseNumber).First(&p).Error
	return &p, err
}

func (r *purchaseRepo) ExistsByNumber(ctx context.Context, purchaseNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("purchase_number = ?", purchaseNumber).Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if filter.Search != "" {
		q = q.Where("purchase_number ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("User").
		Order("updated_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error
	return purchases, total, err
}
