package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is the sellable unit tracked by the inventory ledger.
// Stock is a denormalized cache of the signed sum of the product's
// StockMovement entries; it is only ever mutated together with a ledger
// write, inside the same transaction. Price is stored in minor currency
// units (integer), never floating point.
type Product struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"index;not null"`
	Unit  string    `gorm:"type:varchar(20);not null"`
	Stock int       `gorm:"not null;default:0"`
	Price int64     `gorm:"not null"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User      *User           `gorm:"foreignKey:UserID"`
	Movements []StockMovement `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
