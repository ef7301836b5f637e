// Package currency converts Money amounts between currencies using a
// rate table pivoted through a single reference currency. Only
// to-reference rates are stored, so every cross conversion is two hops:
// source to reference, reference to target.
package currency

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/onlineboutique/checkout/internal/money"
)

// ErrUnsupportedCurrency is returned when a currency code has no entry
// in the rate table.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// referenceScale is the fractional precision kept at the reference hop.
const referenceScale = 9

// Service converts amounts between supported currencies.
type Service interface {
	// Convert returns amount expressed in toCurrency. When the amount is
	// already in toCurrency it is returned untouched, with no rate lookup.
	Convert(ctx context.Context, amount money.Money, toCurrency string) (money.Money, error)

	// Rate returns the composed cross rate (1/fromRate) * toRate.
	// Returns exactly one for from == to, without a lookup.
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)

	// Currencies lists the supported currency codes.
	Currencies(ctx context.Context) ([]string, error)
}

type service struct {
	table *Table
}

// NewService constructs a converter backed by the given rate table.
func NewService(table *Table) Service {
	return &service{table: table}
}

func (s *service) Convert(ctx context.Context, amount money.Money, toCurrency string) (money.Money, error) {
	if amount.CurrencyCode == toCurrency {
		return amount, nil
	}

	snap := s.table.Snapshot()
	fromRate, ok := snap.Rate(amount.CurrencyCode)
	if !ok {
		return money.Money{}, fmt.Errorf("convert from %s: %w", amount.CurrencyCode, ErrUnsupportedCurrency)
	}
	toRate, ok := snap.Rate(toCurrency)
	if !ok {
		return money.Money{}, fmt.Errorf("convert to %s: %w", toCurrency, ErrUnsupportedCurrency)
	}

	// Pivot through the reference currency. Rounding happens once, at
	// the reference hop (half-up to 9 fractional digits); the final
	// units/nanos split truncates sub-nano residue.
	referenceAmount := amount.Decimal().DivRound(fromRate, referenceScale)
	targetAmount := referenceAmount.Mul(toRate)

	return money.FromDecimal(targetAmount, toCurrency), nil
}

func (s *service) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	snap := s.table.Snapshot()
	fromRate, ok := snap.Rate(from)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate from %s: %w", from, ErrUnsupportedCurrency)
	}
	toRate, ok := snap.Rate(to)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate to %s: %w", to, ErrUnsupportedCurrency)
	}

	return decimal.NewFromInt(1).DivRound(fromRate, referenceScale).Mul(toRate), nil
}

func (s *service) Currencies(ctx context.Context) ([]string, error) {
	return s.table.Snapshot().Currencies(), nil
}
