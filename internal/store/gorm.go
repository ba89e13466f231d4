package store

import (
	"context" // Context propagation into gorm
	"errors"  // Error inspection
	"time"    // Cadence marker date

	"vaultbank/internal/domain" // Record models

	"github.com/google/uuid"        // Record identifiers
	"github.com/shopspring/decimal" // Money values
	"gorm.io/gorm"                  // GORM ORM library
)

// Gorm implements Store on a gorm-managed MySQL database
type Gorm struct {
	db *gorm.DB // Live connection or open transaction
}

// NewGorm wraps a gorm connection as a Store. Open the connection with
// gorm.Config{TranslateError: true} so unique-key violations surface as
// gorm.ErrDuplicatedKey.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Atomic runs fn inside a database transaction; fn sees a Store bound to
// that transaction, and any error rolls the whole unit back.
func (s *Gorm) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx}) // Same adapter, bound to the transaction
	})
}

// CreateUser inserts a user; a duplicate phone maps to ErrDuplicate
func (s *Gorm) CreateUser(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UserByPhone finds a user by phone number
func (s *Gorm) UserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// UserByID finds a user by primary key
func (s *Gorm) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// CreateWallet inserts a wallet row
func (s *Gorm) CreateWallet(ctx context.Context, w *domain.Wallet) error {
	return s.db.WithContext(ctx).Create(w).Error
}

// WalletByUser finds the wallet owned by userID
func (s *Gorm) WalletByUser(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

// SetWalletBalance compare-and-swaps the wallet balance. The WHERE clause
// carries the previously read balance; zero rows affected means somebody
// else wrote first.
func (s *Gorm) SetWalletBalance(ctx context.Context, userID uuid.UUID, prev, next decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&domain.Wallet{}).
		Where("user_id = ? AND balance = ?", userID, prev).
		Update("balance", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// CreateTransaction appends a ledger row; ledger rows are never updated
func (s *Gorm) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// TransactionsByUser returns a newest-first page of the user's ledger
func (s *Gorm) TransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateVault inserts a vault row
func (s *Gorm) CreateVault(ctx context.Context, v *domain.Vault) error {
	return s.db.WithContext(ctx).Create(v).Error
}

// VaultByOwner finds a vault by id and owner in one filter
func (s *Gorm) VaultByOwner(ctx context.Context, id, userID uuid.UUID) (*domain.Vault, error) {
	var v domain.Vault
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&v).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &v, nil
}

// Vaults returns every vault for the deduction sweep
func (s *Gorm) Vaults(ctx context.Context) ([]domain.Vault, error) {
	var vaults []domain.Vault
	if err := s.db.WithContext(ctx).Find(&vaults).Error; err != nil {
		return nil, err
	}
	return vaults, nil
}

// SetVaultBalance compare-and-swaps the vault balance
func (s *Gorm) SetVaultBalance(ctx context.Context, id uuid.UUID, prev, next decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&domain.Vault{}).
		Where("id = ? AND balance = ?", id, prev).
		Update("balance", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// MarkDeducted CAS-writes the vault balance and the cadence marker together
func (s *Gorm) MarkDeducted(ctx context.Context, id uuid.UUID, prev, next decimal.Decimal, day time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.Vault{}).
		Where("id = ? AND balance = ?", id, prev).
		Updates(map[string]any{
			"balance":       next,
			"last_deducted": day,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// mapNotFound translates gorm's missing-record error to the adapter's
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
