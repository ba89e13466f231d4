package store

import (
	"context"
	"errors"
	"testing"

	"vaultbank/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, m *Mem, balance string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &domain.User{ID: userID, Name: "A", Phone: userID.String()[:13], Password: "x"}))
	bal, err := decimal.NewFromString(balance)
	require.NoError(t, err)
	require.NoError(t, m.CreateWallet(ctx, &domain.Wallet{UserID: userID, Balance: bal}))
	return userID
}

func TestDuplicatePhoneRejected(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	require.NoError(t, m.CreateUser(ctx, &domain.User{ID: uuid.New(), Phone: "0712345678"}))
	err := m.CreateUser(ctx, &domain.User{ID: uuid.New(), Phone: "0712345678"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestSetWalletBalanceCAS(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	userID := seedWallet(t, m, "100")

	// Matching previous balance succeeds
	require.NoError(t, m.SetWalletBalance(ctx, userID, decimal.NewFromInt(100), decimal.NewFromInt(150)))

	// Stale previous balance is refused and nothing changes
	err := m.SetWalletBalance(ctx, userID, decimal.NewFromInt(100), decimal.NewFromInt(999))
	require.ErrorIs(t, err, ErrConflict)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(150)))
}

func TestAtomicRollsBackOnError(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	userID := seedWallet(t, m, "100")

	boom := errors.New("boom")
	err := m.Atomic(ctx, func(s Store) error {
		if err := s.SetWalletBalance(ctx, userID, decimal.NewFromInt(100), decimal.NewFromInt(40)); err != nil {
			return err
		}
		if err := s.CreateTransaction(ctx, &domain.Transaction{UserID: userID, Type: domain.TxWithdrawal}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Both writes inside the unit were undone
	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestVaultOwnershipFilter(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	v := &domain.Vault{ID: uuid.New(), UserID: owner, Title: "Rent", Balance: decimal.Zero}
	require.NoError(t, m.CreateVault(ctx, v))

	_, err := m.VaultByOwner(ctx, v.ID, stranger)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := m.VaultByOwner(ctx, v.ID, owner)
	require.NoError(t, err)
	require.Equal(t, "Rent", got.Title)
}

func TestTransactionsNewestFirstPaging(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	userID := seedWallet(t, m, "0")
	for i := 1; i <= 5; i++ {
		require.NoError(t, m.CreateTransaction(ctx, &domain.Transaction{
			UserID: userID,
			Type:   domain.TxFund,
			Amount: decimal.NewFromInt(int64(i)),
		}))
	}
	page, err := m.TransactionsByUser(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.True(t, page[0].Amount.Equal(decimal.NewFromInt(5))) // newest first
	require.True(t, page[1].Amount.Equal(decimal.NewFromInt(4)))

	page, err = m.TransactionsByUser(ctx, userID, 10, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.True(t, page[0].Amount.Equal(decimal.NewFromInt(1)))
}
