package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitbook-dev/splitbook/internal/model"
)

// Policy computes each participant's share of an expense. Implementations
// are pure: they never touch balances or the balance sheet.
type Policy interface {
	// Split returns participant ID -> share for the given expense.
	// customShares is nil unless the policy requires explicit shares.
	Split(payerID string, amount decimal.Decimal, participantIDs []string, customShares map[string]decimal.Decimal) (map[string]decimal.Decimal, error)
	Type() model.SplitType
}

var (
	// ErrUnknownSplitType is returned when a split type has no registered policy.
	ErrUnknownSplitType = errors.New("unknown split type")
	// ErrNoParticipants is returned when a split is requested over an empty group.
	ErrNoParticipants = errors.New("split requires at least one participant")
	// ErrMissingCustomShares is returned when a policy needs explicit shares and none were given.
	ErrMissingCustomShares = errors.New("split type requires custom shares")
	// ErrSplitSumMismatch is returned when exact shares do not sum to the expense amount.
	ErrSplitSumMismatch = errors.New("custom shares do not sum to the expense amount")
	// ErrPercentageSumMismatch is returned when percentages do not sum to 100.
	ErrPercentageSumMismatch = errors.New("percentages do not sum to 100")
)

// Registry holds split policies keyed by type.
type Registry struct {
	policies map[model.SplitType]Policy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[model.SplitType]Policy)}
}

// Register adds a policy. Panics on duplicate type.
func (r *Registry) Register(p Policy) {
	if _, ok := r.policies[p.Type()]; ok {
		panic("duplicate split policy: " + string(p.Type()))
	}
	r.policies[p.Type()] = p
}

// Lookup returns the policy registered for a split type.
func (r *Registry) Lookup(t model.SplitType) (Policy, error) {
	p, ok := r.policies[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, t)
	}
	return p, nil
}

// DefaultRegistry returns a registry with the built-in policies registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EqualSplit{})
	r.Register(ExactSplit{})
	r.Register(PercentageSplit{})
	return r
}
