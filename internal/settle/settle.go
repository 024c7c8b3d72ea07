package settle

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitbook-dev/splitbook/internal/model"
)

// Policy reduces an outstanding debt between two participants. Validation
// happens against the balance sheet before anything is mutated; a failed
// settlement leaves both the sheet and the participants untouched.
type Policy interface {
	Settle(payer, payee *model.Participant, amount decimal.Decimal, sheet *model.BalanceSheet) error
	Algo() model.SettlementAlgo
}

var (
	// ErrUnknownSettlementPolicy is returned when an algo has no registered policy.
	ErrUnknownSettlementPolicy = errors.New("unknown settlement policy")
	// ErrNoOutstandingBalance is returned when the pair has no recorded debt.
	ErrNoOutstandingBalance = errors.New("no outstanding balance between these participants")
	// ErrSettlementExceedsBalance is returned when the payment is larger than the debt.
	ErrSettlementExceedsBalance = errors.New("settlement amount exceeds the outstanding balance")
	// ErrNotImplemented is returned by declared policies that have no algorithm yet.
	ErrNotImplemented = errors.New("settlement policy not implemented")
)

// Registry holds settlement policies keyed by algo.
type Registry struct {
	policies map[model.SettlementAlgo]Policy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[model.SettlementAlgo]Policy)}
}

// Register adds a policy. Panics on duplicate algo.
func (r *Registry) Register(p Policy) {
	if _, ok := r.policies[p.Algo()]; ok {
		panic("duplicate settlement policy: " + string(p.Algo()))
	}
	r.policies[p.Algo()] = p
}

// Lookup returns the policy registered for an algo.
func (r *Registry) Lookup(algo model.SettlementAlgo) (Policy, error) {
	p, ok := r.policies[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettlementPolicy, algo)
	}
	return p, nil
}

// DefaultRegistry returns a registry with the built-in policies registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DirectSettlement{})
	r.Register(MinTransfersSettlement{})
	return r
}

// DirectSettlement reduces the single (payer, payee) balance-sheet entry and
// mirrors the change on both participants' balance maps. The sheet entry is
// the sole source of outstanding debt for the ordered pair; the reverse
// direction is untouched.
type DirectSettlement struct{}

// Algo implements Policy.
func (DirectSettlement) Algo() model.SettlementAlgo { return model.SettleDirect }

// Settle implements Policy.
func (DirectSettlement) Settle(payer, payee *model.Participant, amount decimal.Decimal, sheet *model.BalanceSheet) error {
	if !sheet.Has(payer.ID, payee.ID) {
		return fmt.Errorf("%w: %s -> %s", ErrNoOutstandingBalance, payer.ID, payee.ID)
	}
	outstanding := sheet.Outstanding(payer.ID, payee.ID)
	if amount.GreaterThan(outstanding) {
		return fmt.Errorf("%w: paying %s against %s", ErrSettlementExceedsBalance, amount, outstanding)
	}

	sheet.Reduce(payer.ID, payee.ID, amount)
	payee.AdjustBalance(payer.ID, amount.Neg())
	payer.AdjustBalance(payee.ID, amount)
	return nil
}

// MinTransfersSettlement is reserved for a policy that settles the whole
// group in a minimal number of transfers. It is registered so the algo name
// is valid at group creation, but selecting it for a settlement always fails.
type MinTransfersSettlement struct{}

// Algo implements Policy.
func (MinTransfersSettlement) Algo() model.SettlementAlgo { return model.SettleMinTransfers }

// Settle implements Policy.
func (MinTransfersSettlement) Settle(_, _ *model.Participant, _ decimal.Decimal, _ *model.BalanceSheet) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, model.SettleMinTransfers)
}
