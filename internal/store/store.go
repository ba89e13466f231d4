// Package store is the record-store adapter: everything the engines need
// from the backing data service, expressed as select / insert /
// conditional-update operations over the three record kinds (users+wallets,
// vaults, transactions). The gorm implementation talks to MySQL; the
// in-memory implementation backs the package tests.
package store

import (
	"context" // Context on every store operation
	"errors"  // Sentinel error values
	"time"    // Cadence marker date

	"vaultbank/internal/domain" // Record models

	"github.com/google/uuid"        // Record identifiers
	"github.com/shopspring/decimal" // Money values
)

var (
	// ErrNotFound means no record matched the filter
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique constraint (phone) was violated
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict means a conditional balance write matched no row: the
	// balance changed between read and write, or the row is gone
	ErrConflict = errors.New("balance changed concurrently")
)

// Store is the adapter the engines mutate balances through. Balance writes
// are compare-and-swap on the previously read balance so a concurrent
// read-modify-write on the same row cannot lose an update, even from
// another process sharing the database.
type Store interface {
	// Atomic runs fn against a transactional view of the store; every write
	// inside fn commits as one unit or not at all.
	Atomic(ctx context.Context, fn func(Store) error) error

	CreateUser(ctx context.Context, u *domain.User) error
	UserByPhone(ctx context.Context, phone string) (*domain.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	CreateWallet(ctx context.Context, w *domain.Wallet) error
	WalletByUser(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// SetWalletBalance writes next only if the stored balance still equals
	// prev; returns ErrConflict otherwise.
	SetWalletBalance(ctx context.Context, userID uuid.UUID, prev, next decimal.Decimal) error

	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	// TransactionsByUser returns the user's ledger rows newest-first
	TransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error)

	CreateVault(ctx context.Context, v *domain.Vault) error
	// VaultByOwner filters by vault id AND owner, so ownership is enforced
	// by the query itself
	VaultByOwner(ctx context.Context, id, userID uuid.UUID) (*domain.Vault, error)
	// Vaults returns every vault; the deduction sweep filters in memory
	Vaults(ctx context.Context) ([]domain.Vault, error)
	// SetVaultBalance writes next only if the stored balance still equals prev
	SetVaultBalance(ctx context.Context, id uuid.UUID, prev, next decimal.Decimal) error
	// MarkDeducted CAS-writes the vault balance and advances the cadence
	// marker to day in a single update
	MarkDeducted(ctx context.Context, id uuid.UUID, prev, next decimal.Decimal, day time.Time) error
}
