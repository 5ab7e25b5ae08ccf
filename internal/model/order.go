package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is a sales order. Created atomically with its items and the OUT
// stock movements they produce — there is no update path after creation.
// Invariants: Total == sum(Items.Subtotal), PaidAmount >= Total,
// ChangeAmount == PaidAmount - Total.
type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber  string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Date         time.Time `gorm:"type:date;not null"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Total        int64     `gorm:"not null"`
	PaidAmount   int64     `gorm:"not null"`
	ChangeAmount int64     `gorm:"not null"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	User     *User       `gorm:"foreignKey:UserID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a single order line. Price is a snapshot of the product price
// at order time; Subtotal must equal Price * Quantity. A product appears at
// most once per order (composite unique index). Immutable after creation.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product"`
	Quantity  int       `gorm:"not null"`
	Price     int64     `gorm:"not null"`
	Subtotal  int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
