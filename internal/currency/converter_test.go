package currency

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlineboutique/checkout/internal/money"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	snap, err := SeedSnapshot()
	require.NoError(t, err)
	return NewService(NewTable(snap))
}

func TestConvertIdentity(t *testing.T) {
	svc := newTestService(t)

	// Identity must short-circuit before any rate lookup, so even a code
	// absent from the table converts to itself.
	tests := []money.Money{
		money.New("USD", 10, 0),
		money.New("EUR", 0, 1),
		money.New("XTS", 42, 999_999_999),
	}
	for _, m := range tests {
		t.Run(m.CurrencyCode, func(t *testing.T) {
			got, err := svc.Convert(context.Background(), m, m.CurrencyCode)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestConvertUSDToEUR(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Convert(context.Background(), money.New("USD", 10, 0), "EUR")
	require.NoError(t, err)

	// 10 / 1.1305 rounded half-up to 9 fractional digits.
	assert.Equal(t, money.New("EUR", 8, 845_643_521), got)
}

func TestConvertRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	tolerance := decimal.RequireFromString("0.000000002")

	orig := money.New("USD", 10, 0)
	for _, via := range []string{"EUR", "GBP", "JPY", "CAD"} {
		t.Run(via, func(t *testing.T) {
			there, err := svc.Convert(ctx, orig, via)
			require.NoError(t, err)
			back, err := svc.Convert(ctx, there, "USD")
			require.NoError(t, err)

			diff := back.Decimal().Sub(orig.Decimal()).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"round trip via %s drifted by %s (got %s)", via, diff, back)
		})
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Convert(ctx, money.New("XTS", 1, 0), "USD")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	_, err = svc.Convert(ctx, money.New("USD", 1, 0), "XTS")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestRate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rate, err := svc.Rate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.884564352")), "got %s", rate)

	// Identity short-circuits even for unknown codes.
	one, err := svc.Rate(ctx, "XTS", "XTS")
	require.NoError(t, err)
	assert.True(t, one.Equal(decimal.NewFromInt(1)))

	_, err = svc.Rate(ctx, "XTS", "USD")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestCurrencies(t *testing.T) {
	svc := newTestService(t)

	codes, err := svc.Currencies(context.Background())
	require.NoError(t, err)
	assert.Contains(t, codes, "USD")
	assert.Contains(t, codes, ReferenceCurrency)
	assert.True(t, sort.StringsAreSorted(codes))
}

func TestTableSwap(t *testing.T) {
	before, err := ParseSnapshot([]byte(`{"EUR":"1.0","USD":"2.0"}`))
	require.NoError(t, err)
	after, err := ParseSnapshot([]byte(`{"EUR":"1.0","USD":"4.0"}`))
	require.NoError(t, err)

	table := NewTable(before)
	svc := NewService(table)
	ctx := context.Background()

	got, err := svc.Convert(ctx, money.New("EUR", 1, 0), "USD")
	require.NoError(t, err)
	assert.Equal(t, money.New("USD", 2, 0), got)

	table.Swap(after)

	got, err = svc.Convert(ctx, money.New("EUR", 1, 0), "USD")
	require.NoError(t, err)
	assert.Equal(t, money.New("USD", 4, 0), got)
}

func TestParseSnapshotRejectsBadRates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"not a number", `{"USD":"abc"}`},
		{"zero rate", `{"USD":"0"}`},
		{"negative rate", `{"USD":"-1.5"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
