package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an immutable record of one spend event and its computed split.
// Splits maps participant ID to that participant's share of Amount; the
// payer's own share appears here even though it is never posted to any
// balance.
type Expense struct {
	ID          string
	PayerID     string
	Amount      decimal.Decimal
	Splits      map[string]decimal.Decimal
	Description string
	Date        time.Time
}
