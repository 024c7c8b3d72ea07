package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitbook-dev/splitbook/internal/model"
)

var hundred = decimal.NewFromInt(100)

// EqualSplit divides the amount evenly across every participant, payer
// included. Per-head shares are rounded to two decimal places and the
// rounding remainder is folded into the payer's share, so the shares always
// sum to the amount exactly. The payer's share is never posted to a balance,
// which keeps the remainder with the payer.
type EqualSplit struct{}

// Type implements Policy.
func (EqualSplit) Type() model.SplitType { return model.SplitEqual }

// Split implements Policy.
func (EqualSplit) Split(payerID string, amount decimal.Decimal, participantIDs []string, _ map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	count := decimal.NewFromInt(int64(len(participantIDs)))
	perHead := amount.DivRound(count, 2)

	shares := make(map[string]decimal.Decimal, len(participantIDs))
	for _, id := range participantIDs {
		shares[id] = perHead
	}

	if remainder := amount.Sub(perHead.Mul(count)); !remainder.IsZero() {
		shares[payerID] = perHead.Add(remainder)
	}
	return shares, nil
}

// ExactSplit takes the supplied shares verbatim after checking they sum to
// the expense amount.
type ExactSplit struct{}

// Type implements Policy.
func (ExactSplit) Type() model.SplitType { return model.SplitExact }

// Split implements Policy.
func (ExactSplit) Split(_ string, amount decimal.Decimal, _ []string, customShares map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if len(customShares) == 0 {
		return nil, fmt.Errorf("%w: exact split", ErrMissingCustomShares)
	}

	total := decimal.Zero
	for _, share := range customShares {
		total = total.Add(share)
	}
	if !total.Equal(amount) {
		return nil, fmt.Errorf("%w: shares total %s, amount %s", ErrSplitSumMismatch, total, amount)
	}

	// Copy so later mutation of the caller's map cannot reach the expense.
	shares := make(map[string]decimal.Decimal, len(customShares))
	for id, share := range customShares {
		shares[id] = share
	}
	return shares, nil
}

// PercentageSplit interprets the supplied shares as percentages of the
// amount. Percentages must sum to exactly 100.
type PercentageSplit struct{}

// Type implements Policy.
func (PercentageSplit) Type() model.SplitType { return model.SplitPercentage }

// Split implements Policy.
func (PercentageSplit) Split(_ string, amount decimal.Decimal, _ []string, customShares map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if len(customShares) == 0 {
		return nil, fmt.Errorf("%w: percentage split", ErrMissingCustomShares)
	}

	total := decimal.Zero
	for _, pct := range customShares {
		total = total.Add(pct)
	}
	if !total.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages total %s", ErrPercentageSumMismatch, total)
	}

	shares := make(map[string]decimal.Decimal, len(customShares))
	for id, pct := range customShares {
		shares[id] = amount.Mul(pct).Div(hundred)
	}
	return shares, nil
}
