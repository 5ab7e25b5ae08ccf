package model

import (
	"time"

	"github.com/google/uuid"
)

// StockAdjustment records a manual stock correction event. Every
// adjustment also produces one ADJUSTMENT StockMovement carrying the same
// signed difference, written in the same transaction.
type StockAdjustment struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityDifference int       `gorm:"not null"`

	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}
