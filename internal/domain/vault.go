package domain

import (
	"time" // Lock date, cadence marker, creation timestamp

	"github.com/google/uuid"        // UUID primary key and owner key
	"github.com/shopspring/decimal" // Exact money columns
)

// Deduction frequencies accepted on a vault schedule
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// Vault Model. A locked savings goal funded manually or by the deduction
// sweep. DeductionAmount and DeductionFrequency are either both set or both
// null; LastDeducted is null until the first sweep deduction.
type Vault struct {
	ID                 uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`                   // Primary key
	UserID             uuid.UUID        `gorm:"type:char(36);index;not null" json:"user_id"`          // Owning user
	Title              string           `gorm:"not null" json:"title"`                                // Goal title
	TargetAmount       decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"amount"`            // Savings target
	Balance            decimal.Decimal  `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // Accumulated balance, may exceed the target
	LockDate           time.Time        `gorm:"not null" json:"lock_date"`                            // Date the vault unlocks
	FundingMethod      string           `gorm:"not null;default:wallet" json:"funding_method"`        // 'wallet' or 'card' (card reserved)
	DeductionAmount    *decimal.Decimal `gorm:"type:decimal(20,2)" json:"deduction_amt,omitempty"`    // Scheduled deduction amount
	DeductionFrequency *string          `json:"deduction_freq,omitempty"`                             // daily, weekly or monthly
	LastDeducted       *time.Time       `gorm:"type:date" json:"last_deducted,omitempty"`             // Cadence marker, date only
	CreatedAt          time.Time        `json:"created_at"`                                           // Timestamp of creation
}

// HasSchedule reports whether automatic deductions are configured
func (v *Vault) HasSchedule() bool {
	return v.DeductionAmount != nil && v.DeductionFrequency != nil
}
