package domain

import (
	"time" // Creation timestamp

	"github.com/google/uuid"        // UUID foreign key to User
	"github.com/shopspring/decimal" // Exact money column
)

// Wallet Model
type Wallet struct {
	ID        uint            `gorm:"primaryKey" json:"-"`                                  // Primary key
	UserID    uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`    // One wallet per user
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // Spendable balance, never negative
	CreatedAt time.Time       `json:"created_at"`                                           // Timestamp of creation
}
