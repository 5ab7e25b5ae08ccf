package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a ledger entry and determines its sign when the
// ledger is aggregated into a stock total. The set is closed — reject
// anything else at the boundary.
type MovementType string

const (
	// MovementInit is written once, when a product is created with an
	// initial stock value.
	MovementInit MovementType = "INIT"
	// MovementIn is written by the purchase workflow, one per line.
	MovementIn MovementType = "IN"
	// MovementOut is written by the order workflow, one per line.
	// Quantities are stored positive and subtracted during aggregation.
	MovementOut MovementType = "OUT"
	// MovementAdjustment is written by a manual stock correction. Its
	// quantity is pre-signed by the caller and added as-is.
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid reports whether t is one of the four known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInit, MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// SignedQuantity returns the contribution of a movement with this type and
// stored quantity to the ledger sum: OUT subtracts, everything else adds
// the quantity as-is.
func (t MovementType) SignedQuantity(quantity int) int {
	if t == MovementOut {
		return -quantity
	}
	return quantity
}

// StockMovement is one entry in the append-only inventory ledger — the
// system of record for every stock change. Rows are never updated or
// deleted in normal operation; Product.Stock is a derived cache of their
// signed sum.
type StockMovement struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	MovementType MovementType `gorm:"type:varchar(20);not null"`
	Quantity     int          `gorm:"not null"`
	// SourceDoc references the originating document: an order number, a
	// purchase number, "Initial Stock" or "Stock Adjustment".
	SourceDoc string    `gorm:"type:varchar(100);not null;index"`
	Note      string    `gorm:"not null"`
	Date      time.Time `gorm:"not null;index"`

	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	User    *User    `gorm:"foreignKey:UserID"`
}
