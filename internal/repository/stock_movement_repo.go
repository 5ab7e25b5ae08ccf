package repository

import (
	"context"
	"time"

	"github.com/solanoize/optika-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows ledger reads. All reads are ordered by recency.
type MovementFilter struct {
	ProductID *uuid.UUID
	Type      model.MovementType
	SourceDoc string
	Search    string // product name substring
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// StockMovementRepository is the ledger store. Appending — single or
// batched inside a caller-owned transaction — is the only mutating
// primitive; there is no update or delete under normal operation.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	CreateBatchTx(tx *gorm.DB, ms []model.StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, int64, error)

	// SumByProduct aggregates the signed ledger sum for one product:
	// OUT subtracts, INIT/IN/ADJUSTMENT add as-is. Returns 0 when the
	// product has no movements.
	SumByProduct(ctx context.Context, productID uuid.UUID) (int, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) CreateBatchTx(tx *gorm.DB, ms []model.StockMovement) error {
	if len(ms) == 0 {
		return nil
	}
	return tx.Create(&ms).Error
}

func (r *stockMovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").Preload("User").First(&m, id).Error
	return &m, err
}

func (r *stockMovementRepo) List(ctx context.Context, filter MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product").Preload("User")

	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("movement_type = ?", filter.Type)
	}
	if filter.SourceDoc != "" {
		q = q.Where("source_doc = ?", filter.SourceDoc)
	}
	if filter.Search != "" {
		q = q.Joins("JOIN products ON products.id = stock_movements.product_id").
			Where("products.name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *stockMovementRepo) SumByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN movement_type = ? THEN -quantity ELSE quantity END), 0)", model.MovementOut).
		Where("product_id = ?", productID).
		Scan(&sum).Error
	return sum, err
}
