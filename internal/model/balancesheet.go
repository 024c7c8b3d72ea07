package model

import (
	"github.com/shopspring/decimal"
)

// BalanceSheet is the authoritative record of outstanding debt per ordered
// (debtor, creditor) pair. Every recorded entry is positive; reducing an
// entry to zero removes it, so absent and zero are the same thing.
type BalanceSheet struct {
	owed map[string]map[string]decimal.Decimal
}

// NewBalanceSheet creates an empty balance sheet.
func NewBalanceSheet() *BalanceSheet {
	return &BalanceSheet{owed: make(map[string]map[string]decimal.Decimal)}
}

// Outstanding returns the debt debtor owes creditor, zero if none is
// recorded. Lookups never materialize an entry.
func (b *BalanceSheet) Outstanding(debtor, creditor string) decimal.Decimal {
	return b.owed[debtor][creditor]
}

// Has reports whether any debt is recorded for the ordered pair.
func (b *BalanceSheet) Has(debtor, creditor string) bool {
	_, ok := b.owed[debtor][creditor]
	return ok
}

// Add increases the debt debtor owes creditor.
func (b *BalanceSheet) Add(debtor, creditor string, amount decimal.Decimal) {
	row, ok := b.owed[debtor]
	if !ok {
		row = make(map[string]decimal.Decimal)
		b.owed[debtor] = row
	}
	row[creditor] = row[creditor].Add(amount)
}

// Reduce decreases the debt debtor owes creditor, removing the entry when it
// reaches zero. Callers validate that amount does not exceed the entry.
func (b *BalanceSheet) Reduce(debtor, creditor string, amount decimal.Decimal) {
	row, ok := b.owed[debtor]
	if !ok {
		return
	}
	next := row[creditor].Sub(amount)
	if next.IsZero() {
		delete(row, creditor)
		if len(row) == 0 {
			delete(b.owed, debtor)
		}
		return
	}
	row[creditor] = next
}

// Snapshot returns a deep copy of the sheet keyed
// debtor ID -> creditor ID -> outstanding amount. Mutating the copy has no
// effect on the sheet.
func (b *BalanceSheet) Snapshot() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(b.owed))
	for debtor, row := range b.owed {
		cp := make(map[string]decimal.Decimal, len(row))
		for creditor, amt := range row {
			cp[creditor] = amt
		}
		out[debtor] = cp
	}
	return out
}
