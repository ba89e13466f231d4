// Package deduction runs the scheduled-deduction sweep: every vault with a
// configured schedule is checked for cadence eligibility and, if the owning
// wallet can cover the amount, the wallet is debited and the vault credited
// as one atomic unit. One vault failing never aborts the sweep.
package deduction

import (
	"context" // Context on the sweep
	"time"    // Cadence arithmetic

	"vaultbank/internal/domain" // Record models
	"vaultbank/internal/money"  // 2-decimal rounding
	"vaultbank/internal/store"  // Record-store adapter

	"github.com/google/uuid"        // Identifiers in results
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Per-vault failure logging
)

// Result records one vault actually deducted during a sweep
type Result struct {
	UserID   uuid.UUID       `json:"user_id"`  // Wallet owner
	VaultID  uuid.UUID       `json:"vault_id"` // Credited vault
	Deducted decimal.Decimal `json:"deducted"` // Amount moved
}

// Sweeper evaluates all vaults for scheduled auto-funding
type Sweeper struct {
	store store.Store
}

// NewSweeper builds a sweeper over a store
func NewSweeper(st store.Store) *Sweeper {
	return &Sweeper{store: st}
}

// Sweep walks every vault once. Per vault: no schedule → skip; wallet
// missing → skip silently; cadence not yet elapsed or balance insufficient →
// skip; otherwise debit the wallet, credit the vault and advance the cadence
// marker to today's date in one atomic unit. A write failure on one vault is
// logged and skipped; nothing is recorded for that vault. Re-running
// immediately after a successful pass finds no eligible vaults.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) ([]Result, error) {
	vaults, err := s.store.Vaults(ctx)
	if err != nil {
		return nil, err
	}
	today := dateOnly(now)
	results := []Result{}
	for _, v := range vaults {
		if !v.HasSchedule() {
			continue // Schedule disabled
		}
		amt := *v.DeductionAmount
		w, err := s.store.WalletByUser(ctx, v.UserID)
		if err != nil {
			continue // No wallet for this vault, sweep continues
		}
		if !eligible(&v, today) {
			continue // Cadence not yet elapsed
		}
		if w.Balance.LessThan(amt) {
			continue // Insufficient funds, cadence marker untouched
		}
		vaultBalance := v.Balance
		err = s.store.Atomic(ctx, func(tx store.Store) error {
			// Re-read inside the unit so the debit CAS is against fresh state
			w, err := tx.WalletByUser(ctx, v.UserID)
			if err != nil {
				return err
			}
			if w.Balance.LessThan(amt) {
				return store.ErrConflict // Balance moved under us
			}
			if err := tx.SetWalletBalance(ctx, v.UserID, w.Balance, money.Round(w.Balance.Sub(amt))); err != nil {
				return err
			}
			return tx.MarkDeducted(ctx, v.ID, vaultBalance, money.Round(vaultBalance.Add(amt)), today)
		})
		if err != nil {
			// Skip and continue; record nothing for this vault
			logrus.WithFields(logrus.Fields{
				"user_id":  v.UserID,
				"vault_id": v.ID,
				"amount":   amt,
				"error":    err.Error(),
			}).Warn("Vault deduction skipped")
			continue
		}
		results = append(results, Result{UserID: v.UserID, VaultID: v.ID, Deducted: amt})
	}
	return results, nil
}

// eligible applies the cadence table to the whole days elapsed since the
// last deduction. A vault never deducted is always eligible; an unrecognized
// frequency never is.
func eligible(v *domain.Vault, today time.Time) bool {
	if v.LastDeducted == nil {
		return true
	}
	days := daysBetween(dateOnly(*v.LastDeducted), today)
	switch *v.DeductionFrequency {
	case domain.FreqDaily:
		return days >= 1
	case domain.FreqWeekly:
		return days >= 7
	case domain.FreqMonthly:
		return days >= 30
	default:
		return false
	}
}

// dateOnly strips the time component, keeping the calendar date in UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from one date to another
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
