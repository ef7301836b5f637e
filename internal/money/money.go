// Package money implements the exact fixed-point amount used on every
// service boundary: a currency code, whole units, and nanos (billionths
// of a unit). Amounts never pass through binary floating point; all
// arithmetic goes through shopspring decimals.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// NanosPerUnit is the number of nanos in one whole unit of currency.
const NanosPerUnit = 1_000_000_000

// ErrCurrencyMismatch is returned when an operation combines two
// amounts with different currency codes.
var ErrCurrencyMismatch = errors.New("currency mismatch")

var nanosPerUnitDec = decimal.NewFromInt(NanosPerUnit)

// Money is an amount of a single currency.
// Nanos is kept in [0, NanosPerUnit) by Normalize; operations in this
// package never return a denormalized value.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// New builds a normalized Money.
func New(currencyCode string, units int64, nanos int32) Money {
	return Money{CurrencyCode: currencyCode, Units: units, Nanos: nanos}.Normalize()
}

// Zero returns the zero amount of the given currency. Accumulators must
// be seeded with this so the first Add does not trip the currency check.
func Zero(currencyCode string) Money {
	return Money{CurrencyCode: currencyCode}
}

// Normalize carries overflowing nanos into units so that nanos ends up
// in [0, NanosPerUnit).
func (m Money) Normalize() Money {
	for m.Nanos >= NanosPerUnit {
		m.Nanos -= NanosPerUnit
		m.Units++
	}
	return m
}

// Add returns m + other. Both operands must share a currency code;
// otherwise ErrCurrencyMismatch is returned with both codes attached.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, fmt.Errorf("add %s to %s: %w", other.CurrencyCode, m.CurrencyCode, ErrCurrencyMismatch)
	}
	return Money{
		CurrencyCode: m.CurrencyCode,
		Units:        m.Units + other.Units,
		Nanos:        m.Nanos + other.Nanos,
	}.Normalize(), nil
}

// Multiply scales the amount by an exact decimal factor. The result is
// re-split at the units boundary truncating toward zero, so fractions
// below one nano are dropped deterministically.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(factor), m.CurrencyCode)
}

// MultiplyInt scales the amount by an integer quantity.
func (m Money) MultiplyInt(quantity int64) Money {
	return m.Multiply(decimal.NewFromInt(quantity))
}

// Decimal returns the exact decimal value units + nanos/1e9.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Units).Add(decimal.New(int64(m.Nanos), -9))
}

// FromDecimal splits an exact decimal amount into units and nanos,
// truncating toward zero at both boundaries.
func FromDecimal(d decimal.Decimal, currencyCode string) Money {
	units := d.IntPart()
	nanos := d.Sub(decimal.NewFromInt(units)).Mul(nanosPerUnitDec).IntPart()
	return Money{CurrencyCode: currencyCode, Units: units, Nanos: int32(nanos)}.Normalize()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d.%09d", m.CurrencyCode, m.Units, m.Nanos)
}
