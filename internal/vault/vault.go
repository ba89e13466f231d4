// Package vault is the engine for locked savings goals: creating a vault
// with an optional auto-deduction schedule and taking manual deposits.
package vault

import (
	"context" // Context on every engine operation
	"errors"  // Sentinel error values
	"time"    // Lock date

	"vaultbank/internal/domain" // Record models
	"vaultbank/internal/money"  // 2-decimal normalization
	"vaultbank/internal/store"  // Record-store adapter

	"github.com/google/uuid"        // Vault and user identifiers
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Structured logging
)

// Engine errors
var (
	ErrInvalidInput     = errors.New("title, amount and lock_date are required")
	ErrVaultNotFound    = errors.New("vault not found")
	ErrInvalidSchedule  = errors.New("deduction amount and frequency must be set together")
	ErrInvalidFrequency = errors.New("deduction frequency must be daily, weekly or monthly")
)

// casRetries bounds deposit retries after a lost compare-and-swap race
const casRetries = 3

// Engine creates and funds vaults through the record-store adapter
type Engine struct {
	store store.Store
}

// NewEngine builds a vault engine over a store
func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// CreateParams carries the caller-supplied vault fields
type CreateParams struct {
	Title              string           // Goal title
	TargetAmount       decimal.Decimal  // Savings target
	LockDate           time.Time        // Date the vault unlocks
	FundingMethod      string           // 'wallet' (default) or 'card'
	DeductionAmount    *decimal.Decimal // Optional schedule amount
	DeductionFrequency *string          // Optional schedule cadence
}

// Create persists a new vault for userID with a zero balance and no cadence
// marker. The schedule fields must be set together or not at all.
func (e *Engine) Create(ctx context.Context, userID uuid.UUID, p CreateParams) (*domain.Vault, error) {
	// The target only needs to be present and positive; unlike transfer
	// amounts it carries no upper bound
	if p.Title == "" || p.LockDate.IsZero() || !p.TargetAmount.IsPositive() {
		return nil, ErrInvalidInput
	}
	target := money.Round(p.TargetAmount)
	method := p.FundingMethod
	if method == "" {
		method = "wallet"
	}
	// A schedule needs both the amount and the cadence
	if (p.DeductionAmount == nil) != (p.DeductionFrequency == nil) {
		return nil, ErrInvalidSchedule
	}
	var dedAmt *decimal.Decimal
	if p.DeductionAmount != nil {
		switch *p.DeductionFrequency {
		case domain.FreqDaily, domain.FreqWeekly, domain.FreqMonthly:
		default:
			return nil, ErrInvalidFrequency
		}
		amt, err := money.Normalize(*p.DeductionAmount)
		if err != nil {
			return nil, err
		}
		dedAmt = &amt
	}
	v := &domain.Vault{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              p.Title,
		TargetAmount:       target,
		Balance:            decimal.Zero,
		LockDate:           p.LockDate,
		FundingMethod:      method,
		DeductionAmount:    dedAmt,
		DeductionFrequency: p.DeductionFrequency,
		LastDeducted:       nil, // Never deducted yet
	}
	if err := e.store.CreateVault(ctx, v); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"vault_id": v.ID,
		"target":   target,
	}).Info("Vault created")
	return v, nil
}

// Deposit credits a vault the caller owns and returns the new balance.
// Ownership is enforced by the (id, user_id) query filter. The balance may
// grow past the target; deposits never touch the wallet or the ledger.
func (e *Engine) Deposit(ctx context.Context, vaultID, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	amt, err := money.Normalize(amount)
	if err != nil {
		return decimal.Zero, err
	}
	var next decimal.Decimal
	for attempt := 0; attempt < casRetries; attempt++ {
		err = e.store.Atomic(ctx, func(s store.Store) error {
			v, err := s.VaultByOwner(ctx, vaultID, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrVaultNotFound
				}
				return err
			}
			next = money.Round(v.Balance.Add(amt))
			return s.SetVaultBalance(ctx, vaultID, v.Balance, next)
		})
		if errors.Is(err, store.ErrConflict) {
			continue // Lost the race, re-read and retry
		}
		break
	}
	if err != nil {
		return decimal.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"vault_id":    vaultID,
		"amount":      amt,
		"new_balance": next,
	}).Info("Vault deposit")
	return next, nil
}
