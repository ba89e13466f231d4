// Package wallet is the balance engine for the user's spendable wallet:
// funding, withdrawal with sufficiency check, balance reads and the
// transaction ledger. Every balance write is a compare-and-swap against the
// previously read balance inside a store transaction, retried a bounded
// number of times, so concurrent mutations of the same wallet cannot lose
// updates.
package wallet

import (
	"context" // Context on every engine operation
	"errors"  // Sentinel error values
	"regexp"  // Account number shape check
	"strings" // Bank id slugs

	"vaultbank/internal/config" // Fixed bank list and name pools
	"vaultbank/internal/domain" // Record models
	"vaultbank/internal/money"  // 2-decimal normalization
	"vaultbank/internal/store"  // Record-store adapter

	"github.com/google/uuid"        // User identifiers
	"github.com/shopspring/decimal" // Money values
	"github.com/sirupsen/logrus"    // Structured logging
)

// Engine errors
var (
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidAccountNumber = errors.New("account number must be 8 to 20 digits")
	ErrUnknownBank          = errors.New("invalid bank name")
	ErrInvalidPagination    = errors.New("limit must be between 1 and 100 and offset non-negative")
)

var accountNumberPattern = regexp.MustCompile(`^\d{8,20}$`)

// casRetries bounds how often a read-modify-write is retried after losing a
// compare-and-swap race before the error is surfaced.
const casRetries = 3

// Engine mutates wallet balances through the record-store adapter
type Engine struct {
	store store.Store         // Record-store adapter
	cfg   config.WalletConfig // Fixed banks and name pools
	names NameProvider        // Account-holder name source
}

// NewEngine builds a wallet engine over a store and the fixed wallet config
func NewEngine(st store.Store, cfg config.WalletConfig, names NameProvider) *Engine {
	return &Engine{store: st, cfg: cfg, names: names}
}

// FundResult reports a completed wallet funding
type FundResult struct {
	PreviousBalance decimal.Decimal `json:"previous_balance"` // Balance before funding
	AmountFunded    decimal.Decimal `json:"amount_funded"`    // Amount credited
	NewBalance      decimal.Decimal `json:"new_balance"`      // Balance after funding
}

// WithdrawResult reports a completed withdrawal
type WithdrawResult struct {
	PreviousBalance   decimal.Decimal `json:"previous_balance"`    // Balance before withdrawal
	AmountWithdrawn   decimal.Decimal `json:"amount_withdrawn"`    // Amount debited
	NewBalance        decimal.Decimal `json:"new_balance"`         // Balance after withdrawal
	AccountNumber     string          `json:"account_number"`      // Destination account
	BankName          string          `json:"bank_name"`           // Destination bank
	AccountHolderName string          `json:"account_holder_name"` // Mock holder name, display only
}

// Bank is one supported withdrawal bank
type Bank struct {
	Name string `json:"name"` // Display name
	ID   string `json:"id"`   // Lowercase slug
}

// Fund credits the wallet and appends a fund row to the ledger
func (e *Engine) Fund(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*FundResult, error) {
	amt, err := money.Normalize(amount)
	if err != nil {
		return nil, err
	}
	var result *FundResult
	// Retry the whole read-modify-write if the CAS loses a race
	for attempt := 0; attempt < casRetries; attempt++ {
		err = e.store.Atomic(ctx, func(s store.Store) error {
			w, err := s.WalletByUser(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrWalletNotFound
				}
				return err
			}
			next := money.Round(w.Balance.Add(amt))
			if err := s.SetWalletBalance(ctx, userID, w.Balance, next); err != nil {
				return err
			}
			// Ledger row in the same unit as the balance write
			if err := s.CreateTransaction(ctx, &domain.Transaction{
				UserID:       userID,
				Type:         domain.TxFund,
				Amount:       amt,
				BalanceAfter: next,
				Description:  "Wallet funding from external source",
			}); err != nil {
				return err
			}
			result = &FundResult{PreviousBalance: w.Balance, AmountFunded: amt, NewBalance: next}
			return nil
		})
		if errors.Is(err, store.ErrConflict) {
			continue // Lost the race, re-read and retry
		}
		break
	}
	if err != nil {
		return nil, err
	}
	// Log the mutation
	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"amount":      amt,
		"new_balance": result.NewBalance,
		"type":        domain.TxFund,
	}).Info("Wallet funded")
	return result, nil
}

// Withdraw debits the wallet after validating the destination and checking
// sufficiency, and appends a withdrawal row to the ledger.
func (e *Engine) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, accountNumber, bankName string) (*WithdrawResult, error) {
	// Validate the destination before touching any balance
	if !accountNumberPattern.MatchString(accountNumber) {
		return nil, ErrInvalidAccountNumber
	}
	if !e.supportedBank(bankName) {
		return nil, ErrUnknownBank
	}
	amt, err := money.Normalize(amount)
	if err != nil {
		return nil, err
	}
	holder := e.names.AccountHolderName() // Mock banking lookup
	var result *WithdrawResult
	for attempt := 0; attempt < casRetries; attempt++ {
		err = e.store.Atomic(ctx, func(s store.Store) error {
			w, err := s.WalletByUser(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrWalletNotFound
				}
				return err
			}
			// Reject before any write; balance must never go negative
			if w.Balance.LessThan(amt) {
				return ErrInsufficientBalance
			}
			next := money.Round(w.Balance.Sub(amt))
			if err := s.SetWalletBalance(ctx, userID, w.Balance, next); err != nil {
				return err
			}
			if err := s.CreateTransaction(ctx, &domain.Transaction{
				UserID:       userID,
				Type:         domain.TxWithdrawal,
				Amount:       amt,
				BalanceAfter: next,
				Description:  "Withdrawal to " + bankName + " - " + holder,
			}); err != nil {
				return err
			}
			result = &WithdrawResult{
				PreviousBalance:   w.Balance,
				AmountWithdrawn:   amt,
				NewBalance:        next,
				AccountNumber:     accountNumber,
				BankName:          bankName,
				AccountHolderName: holder,
			}
			return nil
		})
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"amount":      amt,
		"bank":        bankName,
		"new_balance": result.NewBalance,
		"type":        domain.TxWithdrawal,
	}).Info("Wallet withdrawal")
	return result, nil
}

// Balance returns the wallet for display; callers format the balance
func (e *Engine) Balance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	w, err := e.store.WalletByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

// Transactions returns a newest-first ledger page. hasMore is a heuristic:
// true exactly when the page came back full.
func (e *Engine) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) (txs []domain.Transaction, hasMore bool, err error) {
	if limit < 1 || limit > 100 || offset < 0 {
		return nil, false, ErrInvalidPagination
	}
	txs, err = e.store.TransactionsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, false, err
	}
	return txs, len(txs) == limit, nil
}

// Banks lists the supported withdrawal banks with stable slug ids
func (e *Engine) Banks() []Bank {
	banks := make([]Bank, 0, len(e.cfg.Banks))
	for _, name := range e.cfg.Banks {
		banks = append(banks, Bank{
			Name: name,
			ID:   strings.ReplaceAll(strings.ToLower(name), " ", "_"),
		})
	}
	return banks
}

func (e *Engine) supportedBank(name string) bool {
	for _, b := range e.cfg.Banks {
		if b == name {
			return true
		}
	}
	return false
}
