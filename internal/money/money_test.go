package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNormalizeBounds(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{"minimum accepted", "0.01", true},
		{"maximum accepted", "1000000", true},
		{"zero rejected", "0", false},
		{"negative rejected", "-5", false},
		{"below minimum rejected", "0.005", false},
		{"above maximum rejected", "1000000.01", false},
		{"ordinary amount", "250.50", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(dec(t, tc.in))
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidAmount)
			}
		})
	}
}

func TestNormalizeRoundsHalfAwayFromZero(t *testing.T) {
	got, err := Normalize(dec(t, "10.005"))
	require.NoError(t, err)
	require.True(t, got.Equal(dec(t, "10.01")), "got %s", got)

	got, err = Normalize(dec(t, "10.004"))
	require.NoError(t, err)
	require.True(t, got.Equal(dec(t, "10.00")), "got %s", got)
}

func TestRepeatedAdditionsDoNotDrift(t *testing.T) {
	// 0.10 added a thousand times must land exactly on 100.00
	sum := decimal.Zero
	tenth := dec(t, "0.10")
	for i := 0; i < 1000; i++ {
		sum = Round(sum.Add(tenth))
	}
	require.True(t, sum.Equal(dec(t, "100.00")), "got %s", sum)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "950.00", Format(dec(t, "950")))
	require.Equal(t, "0.10", Format(dec(t, "0.1")))
	require.Equal(t, "1234.56", Format(dec(t, "1234.56")))
}
