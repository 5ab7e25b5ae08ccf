package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a plain CRM record. It never interacts with the stock ledger.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"index;not null"`
	Phone   string    `gorm:"type:varchar(16);not null"`
	Email   string    `gorm:"type:varchar(100);not null"`
	Address string    `gorm:"not null"`

	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
}
