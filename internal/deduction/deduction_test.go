package deduction

import (
	"context"
	"testing"
	"time"

	"vaultbank/internal/domain"
	"vaultbank/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func seedWallet(t *testing.T, m *store.Mem, balance int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, m.CreateUser(ctx, &domain.User{ID: userID, Name: "Test", Phone: uuid.NewString(), Password: "x"}))
	require.NoError(t, m.CreateWallet(ctx, &domain.Wallet{UserID: userID, Balance: decimal.NewFromInt(balance)}))
	return userID
}

func seedVault(t *testing.T, m *store.Mem, userID uuid.UUID, amt int64, freq string, lastDaysAgo int) *domain.Vault {
	t.Helper()
	a := decimal.NewFromInt(amt)
	v := &domain.Vault{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              "Goal",
		TargetAmount:       decimal.NewFromInt(10_000),
		Balance:            decimal.Zero,
		LockDate:           now.AddDate(1, 0, 0),
		FundingMethod:      "wallet",
		DeductionAmount:    &a,
		DeductionFrequency: strPtr(freq),
	}
	if lastDaysAgo >= 0 {
		last := now.AddDate(0, 0, -lastDaysAgo).Truncate(24 * time.Hour)
		v.LastDeducted = &last
	}
	require.NoError(t, m.CreateVault(context.Background(), v))
	return v
}

func TestSweepDeductsNeverDeductedVault(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()
	userID := seedWallet(t, m, 1000)
	v := seedVault(t, m, userID, 50, domain.FreqDaily, -1) // never deducted

	results, err := NewSweeper(m).Sweep(ctx, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, userID, results[0].UserID)
	require.Equal(t, v.ID, results[0].VaultID)
	require.True(t, results[0].Deducted.Equal(decimal.NewFromInt(50)))

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(950)))

	got, err := m.VaultByOwner(ctx, v.ID, userID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, got.LastDeducted)
	require.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *got.LastDeducted) // date only
}

func TestSweepIsIdempotentWithoutElapsedTime(t *testing.T) {
	m := store.NewMem()
	userID := seedWallet(t, m, 1000)
	seedVault(t, m, userID, 50, domain.FreqDaily, -1)
	sw := NewSweeper(m)

	first, err := sw.Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Immediately re-running finds nothing eligible
	second, err := sw.Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Empty(t, second)

	w, err := m.WalletByUser(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(950))) // deducted exactly once
}

func TestSweepSkipsInsufficientBalance(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()
	userID := seedWallet(t, m, 30)
	v := seedVault(t, m, userID, 50, domain.FreqDaily, -1)

	results, err := NewSweeper(m).Sweep(ctx, now)
	require.NoError(t, err)
	require.Empty(t, results)

	w, err := m.WalletByUser(ctx, userID)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(30))) // untouched

	got, err := m.VaultByOwner(ctx, v.ID, userID)
	require.NoError(t, err)
	require.Nil(t, got.LastDeducted) // cadence marker unchanged
}

func TestWeeklyCadenceBoundary(t *testing.T) {
	cases := []struct {
		name     string
		daysAgo  int
		deducted bool
	}{
		{"six days ago not eligible", 6, false},
		{"seven days ago eligible", 7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := store.NewMem()
			userID := seedWallet(t, m, 1000)
			seedVault(t, m, userID, 50, domain.FreqWeekly, tc.daysAgo)

			results, err := NewSweeper(m).Sweep(context.Background(), now)
			require.NoError(t, err)
			if tc.deducted {
				require.Len(t, results, 1)
			} else {
				require.Empty(t, results)
			}
		})
	}
}

func TestCadenceTable(t *testing.T) {
	cases := []struct {
		freq     string
		daysAgo  int
		deducted bool
	}{
		{domain.FreqDaily, 0, false},
		{domain.FreqDaily, 1, true},
		{domain.FreqMonthly, 29, false},
		{domain.FreqMonthly, 30, true},
	}
	for _, tc := range cases {
		m := store.NewMem()
		userID := seedWallet(t, m, 1000)
		seedVault(t, m, userID, 50, tc.freq, tc.daysAgo)

		results, err := NewSweeper(m).Sweep(context.Background(), now)
		require.NoError(t, err)
		if tc.deducted {
			require.Len(t, results, 1, "%s after %d days", tc.freq, tc.daysAgo)
		} else {
			require.Empty(t, results, "%s after %d days", tc.freq, tc.daysAgo)
		}
	}
}

func TestUnrecognizedFrequencyNeverEligible(t *testing.T) {
	m := store.NewMem()
	userID := seedWallet(t, m, 1000)
	seedVault(t, m, userID, 50, "fortnightly", 400)

	results, err := NewSweeper(m).Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSweepSkipsUnscheduledVaults(t *testing.T) {
	m := store.NewMem()
	userID := seedWallet(t, m, 1000)
	v := &domain.Vault{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Manual only",
		TargetAmount: decimal.NewFromInt(500),
		Balance:      decimal.Zero,
		LockDate:     now.AddDate(1, 0, 0),
	}
	require.NoError(t, m.CreateVault(context.Background(), v))

	results, err := NewSweeper(m).Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSweepContinuesPastMissingWallet(t *testing.T) {
	m := store.NewMem()
	ctx := context.Background()

	// First vault's owner has no wallet at all
	seedVault(t, m, uuid.New(), 50, domain.FreqDaily, -1)
	// Second vault is fully eligible
	userID := seedWallet(t, m, 1000)
	v := seedVault(t, m, userID, 75, domain.FreqDaily, -1)

	results, err := NewSweeper(m).Sweep(ctx, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, v.ID, results[0].VaultID)
}
