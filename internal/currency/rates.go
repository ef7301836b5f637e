package currency

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the pivot for all cross-rate conversions. The
// rate table stores, per currency, how many of its units one EUR buys.
const ReferenceCurrency = "EUR"

// Seed rates shipped with the binary. Rates are decimal strings so they
// survive JSON without float rounding.
//
//go:embed rates.json
var seedRates []byte

// Snapshot is an immutable view of the rate table. Once constructed it
// is never mutated; refreshes replace the whole snapshot via Table.Swap.
type Snapshot struct {
	rates map[string]decimal.Decimal
}

// ParseSnapshot builds a snapshot from a JSON object mapping currency
// codes to decimal rate strings. Non-positive rates are rejected.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("currency: parse rate table: %w", err)
	}
	rates := make(map[string]decimal.Decimal, len(raw))
	for code, s := range raw {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("currency: rate for %s: %w", code, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("currency: rate for %s must be positive, got %s", code, rate)
		}
		rates[code] = rate
	}
	return &Snapshot{rates: rates}, nil
}

// SeedSnapshot loads the embedded rate table.
func SeedSnapshot() (*Snapshot, error) {
	return ParseSnapshot(seedRates)
}

// Rate returns how many units of code one reference unit buys.
func (s *Snapshot) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := s.rates[code]
	return rate, ok
}

// Currencies lists the supported currency codes in lexical order.
func (s *Snapshot) Currencies() []string {
	codes := make([]string, 0, len(s.rates))
	for code := range s.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Table holds the current rate snapshot. Readers never lock: Snapshot
// returns the current immutable view and Swap publishes a replacement
// atomically, so an in-flight conversion keeps the table it started with.
type Table struct {
	snap atomic.Pointer[Snapshot]
}

// NewTable creates a table serving the given snapshot.
func NewTable(s *Snapshot) *Table {
	t := &Table{}
	t.snap.Store(s)
	return t
}

// Snapshot returns the current immutable rate view.
func (t *Table) Snapshot() *Snapshot {
	return t.snap.Load()
}

// Swap atomically replaces the rate snapshot.
func (t *Table) Swap(s *Snapshot) {
	t.snap.Store(s)
}
