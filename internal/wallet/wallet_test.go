package wallet

import (
	"context"
	"strings"
	"testing"

	"vaultbank/internal/config"
	"vaultbank/internal/domain"
	"vaultbank/internal/money"
	"vaultbank/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixedNames makes withdrawal descriptions deterministic in tests
type fixedNames struct{}

func (fixedNames) AccountHolderName() string { return "John Smith" }

func newTestEngine(t *testing.T) (*Engine, *store.Mem) {
	t.Helper()
	m := store.NewMem()
	return NewEngine(m, config.DefaultWalletConfig(), fixedNames{}), m
}

func seedUserWallet(t *testing.T, m *store.Mem, balance string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &domain.User{ID: userID, Name: "Test", Phone: uuid.NewString(), Password: "x"}))
	bal, err := decimal.NewFromString(balance)
	require.NoError(t, err)
	require.NoError(t, m.CreateWallet(ctx, &domain.Wallet{UserID: userID, Balance: bal}))
	return userID
}

// conflictStore injects transient compare-and-swap failures: the first
// remaining wallet balance writes fail with store.ErrConflict, as if another
// process wrote between the engine's read and its write.
type conflictStore struct {
	store.Store
	remaining *int // injected conflicts left
}

func (s *conflictStore) Atomic(ctx context.Context, fn func(store.Store) error) error {
	return s.Store.Atomic(ctx, func(tx store.Store) error {
		return fn(&conflictStore{Store: tx, remaining: s.remaining})
	})
}

func (s *conflictStore) SetWalletBalance(ctx context.Context, userID uuid.UUID, prev, next decimal.Decimal) error {
	if *s.remaining > 0 {
		*s.remaining--
		return store.ErrConflict
	}
	return s.Store.SetWalletBalance(ctx, userID, prev, next)
}

func TestFundRetriesAfterTransientConflict(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()
	userID := seedUserWallet(t, m, "100")
	remaining := 2 // two lost races, third attempt lands
	eng := NewEngine(&conflictStore{Store: m, remaining: &remaining}, config.DefaultWalletConfig(), fixedNames{})

	res, err := eng.Fund(ctx, userID, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, res.NewBalance.Equal(decimal.NewFromInt(150)))
	require.Zero(t, remaining)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(150)))
	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1) // exactly one ledger row despite the retries
}

func TestFundSurfacesExhaustedConflictRetries(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()
	userID := seedUserWallet(t, m, "100")
	remaining := 3 // one conflict per attempt, so every attempt loses
	eng := NewEngine(&conflictStore{Store: m, remaining: &remaining}, config.DefaultWalletConfig(), fixedNames{})

	_, err := eng.Fund(ctx, userID, decimal.NewFromInt(50))
	require.ErrorIs(t, err, store.ErrConflict)

	// Nothing changed: balance intact, no ledger row
	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestWithdrawRetriesAfterTransientConflict(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()
	userID := seedUserWallet(t, m, "500")
	remaining := 1
	eng := NewEngine(&conflictStore{Store: m, remaining: &remaining}, config.DefaultWalletConfig(), fixedNames{})

	res, err := eng.Withdraw(ctx, userID, decimal.NewFromInt(120), "12345678", "City Trust Bank")
	require.NoError(t, err)
	require.True(t, res.NewBalance.Equal(decimal.NewFromInt(380)))
	require.Zero(t, remaining)
}

func TestFundCreditsAndRecords(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "100")

	res, err := eng.Fund(ctx, userID, decimal.NewFromFloat(250.50))
	require.NoError(t, err)
	require.True(t, res.PreviousBalance.Equal(decimal.NewFromInt(100)))
	require.True(t, res.AmountFunded.Equal(decimal.NewFromFloat(250.50)))
	require.True(t, res.NewBalance.Equal(decimal.NewFromFloat(350.50)))

	// One fund row with the balance after the move
	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, domain.TxFund, txs[0].Type)
	require.True(t, txs[0].BalanceAfter.Equal(res.NewBalance))
	require.Equal(t, "Wallet funding from external source", txs[0].Description)
}

func TestFundRejectsBadAmounts(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "100")

	_, err := eng.Fund(ctx, userID, decimal.Zero)
	require.ErrorIs(t, err, money.ErrInvalidAmount)
	_, err = eng.Fund(ctx, userID, decimal.NewFromInt(-10))
	require.ErrorIs(t, err, money.ErrInvalidAmount)
	_, err = eng.Fund(ctx, userID, decimal.NewFromInt(1_000_001))
	require.ErrorIs(t, err, money.ErrInvalidAmount)

	// No writes happened
	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(100)))
}

func TestFundWalletNotFound(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Fund(context.Background(), uuid.New(), decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWithdrawDebitsAndRecords(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "500")

	res, err := eng.Withdraw(ctx, userID, decimal.NewFromInt(120), "12345678", "City Trust Bank")
	require.NoError(t, err)
	require.True(t, res.NewBalance.Equal(decimal.NewFromInt(380)))
	require.Equal(t, "John Smith", res.AccountHolderName)
	require.Equal(t, "City Trust Bank", res.BankName)

	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, domain.TxWithdrawal, txs[0].Type)
	require.Equal(t, "Withdrawal to City Trust Bank - John Smith", txs[0].Description)
}

func TestWithdrawInsufficientLeavesBalanceUnchanged(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "30")

	_, err := eng.Withdraw(ctx, userID, decimal.NewFromInt(50), "12345678", "Community Bank")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(30)))
	txs, err := m.TransactionsByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Empty(t, txs) // no ledger row for the rejected withdrawal
}

func TestWithdrawValidatesDestinationFirst(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "500")

	_, err := eng.Withdraw(ctx, userID, decimal.NewFromInt(10), "1234", "Community Bank")
	require.ErrorIs(t, err, ErrInvalidAccountNumber) // too short
	_, err = eng.Withdraw(ctx, userID, decimal.NewFromInt(10), "12ab5678", "Community Bank")
	require.ErrorIs(t, err, ErrInvalidAccountNumber) // non-digits
	_, err = eng.Withdraw(ctx, userID, decimal.NewFromInt(10), "12345678", "Bank of Nowhere")
	require.ErrorIs(t, err, ErrUnknownBank)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(500)))
}

func TestFundThenWithdrawRoundTrip(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "123.45")

	amount := decimal.NewFromFloat(78.90)
	_, err := eng.Fund(ctx, userID, amount)
	require.NoError(t, err)
	_, err = eng.Withdraw(ctx, userID, amount, "12345678", "Premier Banking")
	require.NoError(t, err)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromFloat(123.45)), "got %s", w.Balance)
}

func TestBalanceNeverNegativeUnderMixedOps(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "100")

	// Alternate withdrawals that sometimes exceed the balance
	amounts := []int64{40, 90, 40, 90, 40}
	for _, a := range amounts {
		_, _ = eng.Withdraw(ctx, userID, decimal.NewFromInt(a), "12345678", "Community Bank")
		w, err := m.WalletByUser(ctx, userID)
		require.NoError(t, err)
		require.False(t, w.Balance.IsNegative(), "balance went negative: %s", w.Balance)
	}
}

func TestTransactionsPagination(t *testing.T) {
	eng, m := newTestEngine(t)
	ctx := context.Background()
	userID := seedUserWallet(t, m, "0")

	for i := 0; i < 3; i++ {
		_, err := eng.Fund(ctx, userID, decimal.NewFromInt(10))
		require.NoError(t, err)
	}

	// Full page means has_more; short page means done
	txs, hasMore, err := eng.Transactions(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.True(t, hasMore)

	txs, hasMore, err = eng.Transactions(ctx, userID, 2, 2)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.False(t, hasMore)

	// Bounds
	_, _, err = eng.Transactions(ctx, userID, 0, 0)
	require.ErrorIs(t, err, ErrInvalidPagination)
	_, _, err = eng.Transactions(ctx, userID, 101, 0)
	require.ErrorIs(t, err, ErrInvalidPagination)
	_, _, err = eng.Transactions(ctx, userID, 10, -1)
	require.ErrorIs(t, err, ErrInvalidPagination)
}

func TestBanksHaveSlugIDs(t *testing.T) {
	eng, _ := newTestEngine(t)
	banks := eng.Banks()
	require.Len(t, banks, 8)
	for _, b := range banks {
		require.NotEmpty(t, b.Name)
		require.Equal(t, strings.ReplaceAll(strings.ToLower(b.Name), " ", "_"), b.ID)
	}
}

func TestMockNamesDrawFromPools(t *testing.T) {
	cfg := config.DefaultWalletConfig()
	names := NewMockNames(cfg.FirstNames, cfg.LastNames)
	for i := 0; i < 20; i++ {
		full := names.AccountHolderName()
		parts := strings.SplitN(full, " ", 2)
		require.Len(t, parts, 2)
		require.Contains(t, cfg.FirstNames, parts[0])
		require.Contains(t, cfg.LastNames, parts[1])
	}
}
