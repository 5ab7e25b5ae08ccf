package model

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records goods bought from a supplier. Purchasing moves
// quantities only, not money — lines carry no price fields.
// Created atomically with its items and their IN movements.
type Purchase struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseNumber string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Date           time.Time `gorm:"type:date;not null"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  *User          `gorm:"foreignKey:UserID"`
	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseItem is a single purchase line. A product appears at most once
// per purchase (composite unique index).
type PurchaseItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_items_purchase_product"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_items_purchase_product"`
	Quantity   int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
