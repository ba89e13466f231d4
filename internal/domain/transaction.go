package domain

import (
	"time" // Creation timestamp

	"github.com/google/uuid"        // UUID foreign key to User
	"github.com/shopspring/decimal" // Exact money columns
)

// Transaction types written to the wallet ledger
const (
	TxFund       = "fund"
	TxWithdrawal = "withdrawal"
)

// Transaction Model. Append-only wallet ledger row, one per fund or
// withdrawal; never updated or deleted.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                             // Primary key
	UserID       uuid.UUID       `gorm:"type:char(36);index;not null" json:"user_id"`      // Wallet owner
	Type         string          `gorm:"not null" json:"type"`                             // fund or withdrawal
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`        // Amount moved
	BalanceAfter decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"balance_after"` // Wallet balance after the move
	Description  string          `json:"description"`                                      // Human-readable context
	CreatedAt    time.Time       `json:"created_at"`                                       // Timestamp of the move
}
