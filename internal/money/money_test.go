package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Money
		want Money
	}{
		{
			"already normalized",
			Money{CurrencyCode: "USD", Units: 3, Nanos: 500_000_000},
			Money{CurrencyCode: "USD", Units: 3, Nanos: 500_000_000},
		},
		{
			"single carry",
			Money{CurrencyCode: "USD", Units: 1, Nanos: 1_750_000_000},
			Money{CurrencyCode: "USD", Units: 2, Nanos: 750_000_000},
		},
		{
			"multiple carries",
			Money{CurrencyCode: "EUR", Units: 0, Nanos: 2_000_000_001},
			Money{CurrencyCode: "EUR", Units: 2, Nanos: 1},
		},
		{
			"zero",
			Money{CurrencyCode: "JPY"},
			Money{CurrencyCode: "JPY"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Less(t, got.Nanos, int32(NanosPerUnit))
			assert.GreaterOrEqual(t, got.Nanos, int32(0))
		})
	}
}

func TestAdd(t *testing.T) {
	a := New("USD", 5, 700_000_000)
	b := New("USD", 2, 600_000_000)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, New("USD", 8, 300_000_000), sum)

	// Commutative.
	sum2, err := b.Add(a)
	require.NoError(t, err)
	assert.Equal(t, sum, sum2)
}

func TestAddAssociative(t *testing.T) {
	a := New("EUR", 1, 999_999_999)
	b := New("EUR", 2, 1)
	c := New("EUR", 3, 500_000_000)

	ab, err := a.Add(b)
	require.NoError(t, err)
	left, err := ab.Add(c)
	require.NoError(t, err)

	bc, err := b.Add(c)
	require.NoError(t, err)
	right, err := a.Add(bc)
	require.NoError(t, err)

	assert.Equal(t, left, right)
}

func TestAddZeroIdentity(t *testing.T) {
	m := New("GBP", 12, 340_000_000)
	got, err := m.Add(Zero("GBP"))
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestAddCurrencyMismatch(t *testing.T) {
	usd := New("USD", 5, 0)
	eur := New("EUR", 3, 0)

	_, err := usd.Add(eur)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMultiply(t *testing.T) {
	tests := []struct {
		name   string
		in     Money
		factor string
		want   Money
	}{
		{"by integer quantity", New("USD", 10, 500_000_000), "3", New("USD", 31, 500_000_000)},
		{"by zero", New("USD", 10, 0), "0", Money{CurrencyCode: "USD"}},
		{"fraction truncates toward zero", New("USD", 0, 1), "0.5", Money{CurrencyCode: "USD"}},
		{"exact fraction", New("EUR", 9, 0), "0.333333333", New("EUR", 2, 999_999_997)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, err := decimal.NewFromString(tt.factor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.in.Multiply(factor))
		})
	}
}

func TestMultiplyDeterministic(t *testing.T) {
	m := New("USD", 7, 123_456_789)
	factor := decimal.RequireFromString("1.000000001")

	first := m.Multiply(factor)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Multiply(factor))
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	tests := []Money{
		New("USD", 0, 0),
		New("USD", 1, 1),
		New("EUR", 123, 456_789_012),
		New("JPY", 9_999_999, 999_999_999),
	}
	for _, m := range tests {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, m, FromDecimal(m.Decimal(), m.CurrencyCode))
		})
	}
}

func TestDecimalExact(t *testing.T) {
	m := New("USD", 10, 100_000_000)
	assert.True(t, m.Decimal().Equal(decimal.RequireFromString("10.1")), "got %s", m.Decimal())
}
